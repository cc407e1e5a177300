// internal/models/reply.go
package models

import "encoding/json"

// Route identifies which pipeline produced a reply.
type Route string

const (
	RouteJourney     Route = "journey"
	RouteCoordinator Route = "coordinator"
	RouteShopper     Route = "shopper"
	RouteTaxi        Route = "taxi"
	RouteWeather     Route = "weather"
)

// ContentType discriminates plain text from a structured card.
type ContentType string

const (
	ContentText         ContentType = "Text"
	ContentAdaptiveCard ContentType = "AdaptiveCard"
)

// AdaptiveCardMIME is the attachment content type for card replies.
const AdaptiveCardMIME = "application/vnd.microsoft.card.adaptive"

// Reply is what a turn sends back to the user.
type Reply struct {
	Route       Route           `json:"route"`
	ContentType ContentType     `json:"contentType"`
	Text        string          `json:"text,omitempty"`
	Card        json.RawMessage `json:"card,omitempty"`
}

// TextReply builds a plain text reply.
func TextReply(route Route, text string) *Reply {
	return &Reply{Route: route, ContentType: ContentText, Text: text}
}

// CardReply builds a structured card reply.
func CardReply(route Route, card json.RawMessage) *Reply {
	return &Reply{Route: route, ContentType: ContentAdaptiveCard, Card: card}
}
