package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/adaptive-assistant/internal/analysis/insights"
	"github.com/zhouzirui/adaptive-assistant/internal/service/assistant"
	"github.com/zhouzirui/adaptive-assistant/internal/service/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long: `Chat with the assistant in the terminal.

Commands:
  /style <detailed|concise|balanced>  choose a communication style
  /insights                           show conversation analytics
  /export                             print the analytics export as JSON
  /quit                               leave`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		return runREPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a.chatSvc, a.assistantSvc)
	},
}

// runREPL drives a single session from line-oriented input until EOF or /quit.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, chatSvc *chat.Service, assistantSvc *assistant.Service) error {
	session, err := chatSvc.CreateSession(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Session %s started. Type /quit to leave.\n", session.ID)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case strings.HasPrefix(line, "/style"):
			profile, err := chatSvc.SetStyle(ctx, session.ID, strings.TrimSpace(strings.TrimPrefix(line, "/style")))
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "style set to %s\n", profile.CommunicationStyle)
		case line == "/insights":
			current, err := chatSvc.GetSession(ctx, session.ID)
			if err != nil {
				return err
			}
			if err := writeJSON(out, insights.Build(current)); err != nil {
				return err
			}
		case line == "/export":
			doc, err := chatSvc.Export(ctx, session.ID)
			if err != nil {
				return err
			}
			if err := writeJSON(out, doc); err != nil {
				return err
			}
		default:
			fmt.Fprintln(out, "Valerya's Personal Assistant is thinking...")
			result, err := assistantSvc.HandleTurn(ctx, session.ID, line)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Assistant [%s]: %s\n", result.AssistantMessage.Timestamp, result.AssistantMessage.Content)
		}
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
