// cmd/concierge/ask.go
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"trip-concierge/internal/app"
	"trip-concierge/internal/models"
)

var conversationID string

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send one message and print the reply",
	Example: `  concierge ask "What's the weather in Boston tomorrow?"
  concierge ask "I have an interview in Midtown tomorrow at 10am, flying into JFK"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&conversationID, "conversation", "", "conversation id (default: a new uuid)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	id := conversationID
	if id == "" {
		id = uuid.NewString()
	}

	reply, err := a.Dispatcher.Handle(ctx, models.InboundMessage{
		ConversationID: id,
		Text:           strings.Join(args, " "),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reply.ContentType == models.ContentAdaptiveCard {
		fmt.Fprintf(out, "[%s] %s\n%s\n", reply.Route, models.AdaptiveCardMIME, reply.Card)
		return nil
	}
	fmt.Fprintf(out, "[%s] %s\n", reply.Route, reply.Text)
	return nil
}
