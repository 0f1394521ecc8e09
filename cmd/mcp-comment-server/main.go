// mcp-comment-server exposes the tracking-comment update endpoint as an MCP
// tool so the agent can report progress without direct API access.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	requiredEnv := []string{"GITHUB_TOKEN", "GITHUB_REPOSITORY", "CLAUDE_COMMENT_ID"}
	for _, name := range requiredEnv {
		if os.Getenv(name) == "" {
			log.Fatalf("[MCP Comment Server] Missing required environment variable: %s", name)
		}
	}

	log.Printf("[MCP Comment Server] Repository: %s, Comment ID: %s",
		os.Getenv("GITHUB_REPOSITORY"), os.Getenv("CLAUDE_COMMENT_ID"))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "comment-server",
		Version: "v1.0.0",
	}, nil)

	tool := &mcp.Tool{
		Name:        "update_agent_comment",
		Description: "Update the agent's tracking comment with progress and results (works for both issue and PR comments)",
	}
	mcp.AddTool(server, tool, HandleUpdateComment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[MCP Comment Server] Received shutdown signal")
		cancel()
	}()

	log.Println("[MCP Comment Server] Starting on stdio transport...")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("[MCP Comment Server] Server error: %v", err)
	}
}
