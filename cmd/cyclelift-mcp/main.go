// Command cyclelift-mcp serves the CycleLift MCP tools over stdio, reading
// data from a remote CycleLift server through its REST API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/cyclelift/internal/config"
	"github.com/claude/cyclelift/internal/logging"
	cyclemcp "github.com/claude/cyclelift/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", os.Getenv("CYCLELIFT_URL"), "base URL of the CycleLift server (e.g. http://cyclelift.tailnet.ts.net)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: cyclelift-mcp -server http://host[:port]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(logging.NewHandler(os.Stderr, config.LogConfig{Level: *logLevel, Format: "text"}))
	log.Info("CycleLift MCP bridge starting", "version", Version, "server", *serverURL)

	s := cyclemcp.New(cyclemcp.NewHTTPClient(*serverURL), Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("stdio server failed", "error", err)
		os.Exit(1)
	}
}
