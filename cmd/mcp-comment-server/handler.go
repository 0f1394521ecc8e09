package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/config"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/taskctx"
)

// UpdateCommentParams defines the input parameters for the tool.
type UpdateCommentParams struct {
	Body string `json:"body" jsonschema:"The updated comment content"`
}

// HandleUpdateComment handles the update_agent_comment tool call. The target
// comment is fixed by CLAUDE_COMMENT_ID so the agent can only touch its own
// tracking comment.
func HandleUpdateComment(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params UpdateCommentParams,
) (*mcp.CallToolResult, any, error) {
	log.Printf("[MCP Comment Server] Received update_agent_comment request")

	if params.Body == "" {
		return nil, nil, fmt.Errorf("body parameter is required")
	}

	commentID, err := strconv.ParseInt(os.Getenv("CLAUDE_COMMENT_ID"), 10, 64)
	if err != nil {
		log.Printf("[MCP Comment Server] Invalid CLAUDE_COMMENT_ID: %v", err)
		return nil, nil, fmt.Errorf("invalid CLAUDE_COMMENT_ID: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	kind := platform.KindGitHub
	if cfg.Platform() == config.PlatformGitea {
		kind = platform.KindGitea
	}
	client, err := platform.New(platform.Options{
		Kind:    kind,
		APIBase: cfg.APIBase(),
		Owner:   cfg.Owner(),
		Repo:    cfg.Name(),
		Token:   cfg.Token,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build platform client: %w", err)
	}

	body := taskctx.SanitizeContent(params.Body)
	log.Printf("[MCP Comment Server] Updating comment with %d characters", len(body))

	if err := client.UpdateComment(ctx, commentID, body); err != nil {
		log.Printf("[MCP Comment Server] Failed to update comment: %v", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)},
			},
			IsError: true,
		}, nil, nil
	}

	resultText := fmt.Sprintf(`{
  "success": true,
  "owner": "%s",
  "repo": "%s",
  "comment_id": %d,
  "body_length": %d
}`, cfg.Owner(), cfg.Name(), commentID, len(body))

	log.Printf("[MCP Comment Server] Successfully updated comment #%d", commentID)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: resultText},
		},
	}, nil, nil
}
