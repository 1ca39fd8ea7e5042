package main

import (
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/cohort-labs/cohort/internal/config"
	"github.com/cohort-labs/cohort/mcp"
)

const (
	serverName    = "cohort"
	serverVersion = "1.0.0"
)

func main() {
	// MCP uses stdout for JSON-RPC, so logging goes to stderr
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Printf("Warning: falling back to default configuration: %v\n", err)
		cfg = config.DefaultConfig()
	}

	server := mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	handlers := mcp.NewHandlerSet(mcp.NewDependencies(cfg, ""))
	mcp.RegisterTools(server, handlers)

	log.Printf("Starting %s MCP server v%s\n", serverName, serverVersion)
	log.Println("Registered tools:")
	log.Println("  - cluster_survey: Cluster respondents at a fixed k")
	log.Println("  - sweep_k: Try a k range and pick the best silhouette")
	log.Println("  - impute_dataset: Fill missing answers with KNN imputation")
	log.Println("")
	log.Println("Server ready - waiting for MCP client connection...")

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
