package fetch

import (
	"context"

	"github.com/tranphat180603/canvas-cli/internal/canvas"
	"github.com/tranphat180603/canvas-cli/internal/timeutil"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// ConversationsParams filter the inbox listing.
type ConversationsParams struct {
	ListParams
	// Scope is one of unread, starred, archived, sent. Empty lists the inbox.
	Scope string
}

// ConversationParams select a single conversation.
type ConversationParams struct {
	ConversationID int64
	// Since keeps only messages created strictly after this timestamp.
	Since string
}

// conversationUpdatedAt falls back to last_message_at when updated_at is absent.
func conversationUpdatedAt(o canvas.Object) any {
	if v := o.Raw("updated_at"); v != nil {
		return v
	}
	return o.Raw("last_message_at")
}

// Conversations lists the user's conversations.
func (f *Fetcher) Conversations(ctx context.Context, auth types.AuthContext, p ConversationsParams) types.ToolOutput[types.Conversation] {
	page, size := p.clamped()
	return run(ctx, f, ToolListConversations, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.Conversation, bool, error) {
		return listPage(ctx, c.Conversations(p.Scope), p.ListParams, conversationUpdatedAt, projectConversation)
	})
}

// Conversation gets one conversation with its messages.
func (f *Fetcher) Conversation(ctx context.Context, auth types.AuthContext, p ConversationParams) types.ToolOutput[types.Conversation] {
	return run(ctx, f, ToolGetConversation, auth, 1, 1, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.Conversation, bool, error) {
		obj, err := c.Conversation(ctx, p.ConversationID)
		if err != nil {
			return nil, false, err
		}
		convo := projectConversation(obj)
		convo.Messages = []types.ConversationMessage{}
		for _, m := range obj.Objects("messages") {
			if !timeutil.IsAfter(m.Raw("created_at"), p.Since) {
				continue
			}
			convo.Messages = append(convo.Messages, projectConversationMessage(m, convo.ID))
		}
		return []types.Conversation{convo}, false, nil
	})
}
