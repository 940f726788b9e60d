package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tranphat180603/canvas-cli/internal/fetch"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// registerListConversations registers the canvas_list_conversations tool.
func (ts *ToolServer) registerListConversations() {
	tool := newListTool(fetch.ToolListConversations,
		"List conversations (inbox) for the current user.",
		mcp.WithString("scope",
			mcp.Description("Mailbox to read: 'unread', 'starred', 'archived' or 'sent'. Defaults to the inbox."),
		),
	)

	ts.add(tool, ts.handleListConversations)
}

func (ts *ToolServer) handleListConversations(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	return ts.fetcher.Conversations(ctx, auth, fetch.ConversationsParams{
		ListParams: listParams(args),
		Scope:      stringArg(args, "scope"),
	}), nil
}

// registerGetConversation registers the canvas_get_conversation tool.
func (ts *ToolServer) registerGetConversation() {
	tool := newTool(fetch.ToolGetConversation,
		"Get a single conversation with messages.",
		mcp.WithNumber("conversation_id",
			mcp.Required(),
			mcp.Description("Conversation ID"),
		),
		mcp.WithString("since",
			mcp.Description("ISO timestamp; only messages created after it are returned"),
		),
	)

	ts.add(tool, ts.handleGetConversation)
}

func (ts *ToolServer) handleGetConversation(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	id, err := requiredID(args, "conversation_id")
	if err != nil {
		return nil, err
	}
	return ts.fetcher.Conversation(ctx, auth, fetch.ConversationParams{
		ConversationID: id,
		Since:          stringArg(args, "since"),
	}), nil
}
