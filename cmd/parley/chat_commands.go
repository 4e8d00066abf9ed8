package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newSendCommand(ctx *commandContext) *cobra.Command {
	var chatID int64

	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send a message and print the assistant reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, err := ctx.serverURL()
			if err != nil {
				return err
			}
			client := newAPIClient(baseURL)

			message := strings.TrimSpace(strings.Join(args, " "))
			result, err := client.SendTurn(cmd.Context(), chatID, message)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if chatID == 0 {
				fmt.Fprintf(out, "chat %d\n\n", result.ChatID)
			}
			fmt.Fprintln(out, result.Response)
			return nil
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat", 0, "Continue an existing chat by id (omit to start a new one)")
	return cmd
}

func newChatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chats",
		Short: "List chats, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, err := ctx.serverURL()
			if err != nil {
				return err
			}
			client := newAPIClient(baseURL)

			chats, err := client.ListChats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(chats) == 0 {
				fmt.Fprintln(out, "No chats yet.")
				return nil
			}

			rows := make([][]string, 0, len(chats))
			for _, chat := range chats {
				rows = append(rows, []string{
					strconv.FormatInt(chat.ID, 10),
					chat.Title,
					chat.CreatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Created"}, rows))
			return nil
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <chat-id>",
		Short: "Print the transcript of a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || chatID <= 0 {
				return fmt.Errorf("invalid chat id %q", args[0])
			}

			baseURL, err := ctx.serverURL()
			if err != nil {
				return err
			}
			client := newAPIClient(baseURL)

			transcript, err := client.Transcript(cmd.Context(), chatID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(transcript.Messages) == 0 {
				fmt.Fprintln(out, "Chat has no messages.")
				return nil
			}
			for _, msg := range transcript.Messages {
				fmt.Fprintf(out, "[%s] %s\n%s\n\n",
					msg.CreatedAt.Local().Format(time.DateTime),
					strings.ToUpper(msg.Role),
					msg.Content)
			}
			return nil
		},
	}
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check daemon and store health",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, err := ctx.serverURL()
			if err != nil {
				return err
			}
			client := newAPIClient(baseURL)

			health, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "daemon %s: %s\n", baseURL, health.Status)
			return nil
		},
	}
}
