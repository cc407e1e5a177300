// internal/server/activity.go
package server

import (
	"encoding/json"

	"trip-concierge/internal/models"
)

// Activity is the outbound message shape: plain text, or a single card attachment.
type Activity struct {
	Type           string       `json:"type"`
	ConversationID string       `json:"conversationId"`
	Route          models.Route `json:"route"`
	Text           string       `json:"text,omitempty"`
	Attachments    []Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	ContentType string          `json:"contentType"`
	Content     json.RawMessage `json:"content"`
}

func NewActivity(conversationID string, reply *models.Reply) *Activity {
	a := &Activity{
		Type:           "message",
		ConversationID: conversationID,
		Route:          reply.Route,
	}
	if reply.ContentType == models.ContentAdaptiveCard && len(reply.Card) > 0 {
		a.Attachments = []Attachment{{ContentType: models.AdaptiveCardMIME, Content: reply.Card}}
		return a
	}
	a.Text = reply.Text
	return a
}
