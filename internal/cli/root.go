// Package cli assembles the meetwatch command tree.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vexalabs/meetwatch/internal/config"
	"github.com/vexalabs/meetwatch/internal/observability"
	"github.com/vexalabs/meetwatch/internal/vexa"
)

// NewRootCommand builds the meetwatch command tree
func NewRootCommand() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:   "meetwatch",
		Short: "Live transcript watcher for meeting bots",
		Long: `meetwatch dispatches a transcription bot into a meeting, follows the
growing transcript live, and derives keywords, summaries, and per-speaker
emotion analytics in the terminal.

Configuration comes from the environment (or a .env file):
  MEETWATCH_API_URL   base URL of the meeting-bot service
  MEETWATCH_API_KEY   credential for authenticated endpoints`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
			return nil
		},
	}

	getConfig := func() *config.Config { return cfg }

	root.AddCommand(newWatchCommand(getConfig))
	root.AddCommand(newSummaryCommand(getConfig))
	root.AddCommand(newKeywordsCommand(getConfig))
	root.AddCommand(newMeetingsCommand(getConfig))
	root.AddCommand(newMoodCommand(getConfig))
	root.AddCommand(newBotCommand(getConfig))

	return root
}

// userMessage turns a transport-layer error into the line shown to the
// user: the remote-provided message when available, the status code
// otherwise.
func userMessage(err error) string {
	var transportErr *vexa.TransportError
	if errors.As(err, &transportErr) {
		return transportErr.UserMessage()
	}
	return err.Error()
}

// Execute runs the command tree
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", userMessage(err))
		return err
	}
	return nil
}
