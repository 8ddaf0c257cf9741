package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"folio/folio/utils/color"
	"folio/folio/widget"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the portfolio assistant questions from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		session, _ := cmd.Flags().GetString("session")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		w := widget.New(widget.NewHTTPTransport(server, timeout), widget.WithSession(session))
		return runChat(cmd, w, os.Stdin, cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().String("server", "http://localhost:8000", "Base URL of the folio server")
	chatCmd.Flags().String("session", "", "Reuse a session id from an earlier run")
	chatCmd.Flags().Duration("timeout", 90*time.Second, "Request timeout")
}

func runChat(cmd *cobra.Command, w *widget.Widget, in io.Reader, out io.Writer) error {
	w.Open()
	for _, m := range w.Messages() {
		fmt.Fprintln(out, color.ColorAssistant(m.Content))
	}
	fmt.Fprintln(out, color.ColorMuted("Type your question, or 'exit' to quit."))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, color.ColorPrompt("you> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}
		if line == "" {
			continue
		}

		reply, err := w.Send(cmd.Context(), line)
		switch {
		case errors.Is(err, widget.ErrLimitReached):
			if reply.Content != "" {
				fmt.Fprintln(out, color.ColorWarning(reply.Content))
			} else {
				fmt.Fprintln(out, color.ColorWarning("You have no questions left in this session."))
			}
			return nil
		case errors.Is(err, widget.ErrUnavailable):
			fmt.Fprintln(out, color.ColorError(reply.Content))
			continue
		case err != nil:
			return err
		}

		fmt.Fprintln(out, color.ColorAssistant(reply.Content))
		if n := w.Remaining(); n >= 0 {
			fmt.Fprintln(out, color.ColorMuted(fmt.Sprintf("(%d questions left, session %s)", n, w.SessionID())))
		}
		if w.State() == widget.LimitReached {
			fmt.Fprintln(out, color.ColorWarning("That was your last question for this session."))
			return nil
		}
	}
	w.Close()
	return nil
}
