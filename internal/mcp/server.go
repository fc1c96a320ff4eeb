package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("CycleLift", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("CycleLift strength training server. Read plan day prescriptions with their cycle modifiers, exercise history with estimated 1RM, personal-record medals per session, weekly set counts and 1RM goal trends."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListPlans, Handler: h.listPlans},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetDayPrescription, Handler: h.getDayPrescription},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetSessionMedals, Handler: h.getSessionMedals},
		server.ServerTool{Tool: toolGetGoalTrend, Handler: h.getGoalTrend},
		server.ServerTool{Tool: toolGetWeeklySets, Handler: h.getWeeklySets},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExercises, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resExercises = mcp.NewResource(
	"cyclelift://exercises",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises with their IDs, names and goals"),
	mcp.WithMIMEType("application/json"),
)
