package plan

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/numeric"
	"github.com/spf13/cast"
)

// CurrentSchemaVersion is written to every plan that passes through Decode or Migrate.
//
// Version 0 (no schemaVersion field) plans may carry numeric strings,
// modifiers stored as {"metric": value} objects, cycles and days stored as
// arrays, overrides that are bare set lists or not objects at all, and
// cycle/day keys outside the valid range.
const CurrentSchemaVersion = 1

type rawPlan struct {
	ID            any             `json:"id"`
	Name          any             `json:"name"`
	SchemaVersion any             `json:"schemaVersion"`
	Days          json.RawMessage `json:"days"`
	Mesocycle     json.RawMessage `json:"mesocycle"`
	UpdatedAt     any             `json:"updatedAt"`
}

type rawMesocycle struct {
	CycleCount    any             `json:"cycleCount"`
	SelectedCycle any             `json:"selectedCycle"`
	Cycles        json.RawMessage `json:"cycles"`
}

type rawDay struct {
	Modifiers         json.RawMessage `json:"modifiers"`
	ExerciseOverrides json.RawMessage `json:"exerciseOverrides"`
}

// Decode reads a stored plan document of any schema version and returns it
// normalized to CurrentSchemaVersion. Malformed parts are dropped; only a
// document that is not a JSON object is an error.
func Decode(data []byte) (*models.Plan, error) {
	var raw rawPlan
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}

	p := &models.Plan{
		ID:            cast.ToString(raw.ID),
		Name:          cast.ToString(raw.Name),
		SchemaVersion: numeric.IntOr(raw.SchemaVersion, 0),
		Days:          decodeAssignments(raw.Days),
	}
	if s, ok := raw.UpdatedAt.(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			p.UpdatedAt = t
		}
	}
	var meso rawMesocycle
	if !isNull(raw.Mesocycle) && json.Unmarshal(raw.Mesocycle, &meso) == nil {
		p.Mesocycle.CycleCount = numeric.IntOr(meso.CycleCount, 1)
		p.Mesocycle.SelectedCycle = numeric.IntOr(meso.SelectedCycle, 1)
		p.Mesocycle.Cycles = decodeCycles(meso.Cycles)
	}

	Migrate(p)
	return p, nil
}

// Version reports the schemaVersion recorded in a stored plan document, 0
// when absent or unreadable.
func Version(data []byte) int {
	var v struct {
		SchemaVersion any `json:"schemaVersion"`
	}
	if json.Unmarshal(data, &v) != nil {
		return 0
	}
	return numeric.IntOr(v.SchemaVersion, 0)
}

// Migrate normalizes an in-memory plan to the current schema: indices are
// clamped or dropped, modifiers normalized, empty overrides removed.
func Migrate(p *models.Plan) {
	if p.Mesocycle.CycleCount == 0 {
		p.Mesocycle.CycleCount = 1
	}
	SetCycleCount(p, p.Mesocycle.CycleCount)
	SelectCycle(p, p.Mesocycle.SelectedCycle)

	days := make(map[int]string, len(p.Days))
	for day, routineID := range p.Days {
		if day >= 1 && day <= DaysPerCycle && routineID != "" {
			days[day] = routineID
		}
	}
	p.Days = days

	cycles := make(map[int]*models.CycleData, len(p.Mesocycle.Cycles))
	for ci, c := range p.Mesocycle.Cycles {
		if ci < 1 || ci > MaxCycles || c == nil {
			continue
		}
		kept := &models.CycleData{Days: make(map[int]*models.DayData, len(c.Days))}
		for di, d := range c.Days {
			if di < 1 || di > DaysPerCycle || d == nil {
				continue
			}
			kept.Days[di] = normalizeDay(d)
		}
		cycles[ci] = kept
	}
	p.Mesocycle.Cycles = cycles
	p.SchemaVersion = CurrentSchemaVersion
}

func normalizeDay(d *models.DayData) *models.DayData {
	out := newDay()
	out.Modifiers = NormalizeModifiers(d.Modifiers)
	for id, o := range d.ExerciseOverrides {
		if id == "" || len(o.Sets) == 0 {
			continue
		}
		out.ExerciseOverrides[id] = models.ExerciseOverride{Sets: models.CloneSets(o.Sets)}
	}
	return out
}

// indexed reads either an object keyed by integer strings or an array (read
// 1-based). Non-integer keys are dropped.
func indexed(raw json.RawMessage) map[int]json.RawMessage {
	out := make(map[int]json.RawMessage)
	if len(raw) == 0 {
		return out
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for k, v := range obj {
			if i, err := strconv.Atoi(strings.TrimSpace(k)); err == nil {
				out[i] = v
			}
		}
		return out
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		for i, v := range arr {
			out[i+1] = v
		}
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

func decodeAssignments(raw json.RawMessage) map[int]string {
	out := make(map[int]string)
	for day, v := range indexed(raw) {
		var id any
		if err := json.Unmarshal(v, &id); err != nil || id == nil {
			continue
		}
		out[day] = cast.ToString(id)
	}
	return out
}

func decodeCycles(raw json.RawMessage) map[int]*models.CycleData {
	out := make(map[int]*models.CycleData)
	for ci, v := range indexed(raw) {
		if isNull(v) {
			continue
		}
		// A cycle is either {"days": ...} or, in older documents, the days themselves.
		var wrapped struct {
			Days json.RawMessage `json:"days"`
		}
		daysRaw := v
		if err := json.Unmarshal(v, &wrapped); err == nil && len(wrapped.Days) > 0 {
			daysRaw = wrapped.Days
		}
		c := &models.CycleData{Days: make(map[int]*models.DayData)}
		for di, dv := range indexed(daysRaw) {
			if d := decodeDay(dv); d != nil {
				c.Days[di] = d
			}
		}
		out[ci] = c
	}
	return out
}

func decodeDay(raw json.RawMessage) *models.DayData {
	var rd rawDay
	if isNull(raw) || json.Unmarshal(raw, &rd) != nil {
		return nil
	}
	d := newDay()
	d.Modifiers = decodeModifiers(rd.Modifiers)
	d.ExerciseOverrides = decodeOverrides(rd.ExerciseOverrides)
	return d
}

func decodeModifiers(raw json.RawMessage) []models.Modifier {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		mods := make([]models.Modifier, 0, len(list))
		for _, entry := range list {
			var item map[string]any
			if json.Unmarshal(entry, &item) != nil {
				continue
			}
			metric, _ := item["metric"].(string)
			value, _ := numeric.Float(item["value"])
			mods = append(mods, models.Modifier{Metric: models.Metric(metric), Value: value})
		}
		return NormalizeModifiers(mods)
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		mods := make([]models.Modifier, 0, len(obj))
		for _, k := range keys {
			value, ok := numeric.Float(obj[k])
			if !ok {
				continue
			}
			mods = append(mods, models.Modifier{Metric: models.Metric(k), Value: value})
		}
		return NormalizeModifiers(mods)
	}
	return []models.Modifier{}
}

func decodeOverrides(raw json.RawMessage) map[string]models.ExerciseOverride {
	out := map[string]models.ExerciseOverride{}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return out
	}
	for id, v := range obj {
		var wrapped struct {
			Sets json.RawMessage `json:"sets"`
		}
		setsRaw := v
		if err := json.Unmarshal(v, &wrapped); err == nil {
			setsRaw = wrapped.Sets
		}
		if sets := decodeSets(setsRaw); len(sets) > 0 {
			out[id] = models.ExerciseOverride{Sets: sets}
		}
	}
	return out
}

func decodeSets(raw json.RawMessage) []models.SetValues {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	sets := make([]models.SetValues, 0, len(items))
	for _, item := range items {
		var s models.SetValues
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		sets = append(sets, s)
	}
	return sets
}
