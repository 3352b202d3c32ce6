package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vexalabs/meetwatch/internal/config"
	"github.com/vexalabs/meetwatch/internal/resilience"
	"github.com/vexalabs/meetwatch/internal/vexa"
)

func newMeetingsCommand(getConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "meetings",
		Short: "List meetings visible to the configured credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := vexa.NewClient(getConfig())

			var meetings []vexa.Meeting
			err := resilience.Retry(cmd.Context(), func() error {
				var fetchErr error
				meetings, fetchErr = client.ListMeetings(cmd.Context())
				return fetchErr
			}, nil)
			if err != nil {
				return err
			}

			if len(meetings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no meetings")
				return nil
			}
			for _, meeting := range meetings {
				line := fmt.Sprintf("%-12s %s", meeting.Platform, meeting.NativeMeetingID)
				if meeting.Status != "" {
					line += "  (" + meeting.Status + ")"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
