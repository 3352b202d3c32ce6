package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vexalabs/meetwatch/internal/config"
	"github.com/vexalabs/meetwatch/internal/keywords"
	"github.com/vexalabs/meetwatch/internal/render"
	"github.com/vexalabs/meetwatch/internal/resilience"
	"github.com/vexalabs/meetwatch/internal/vexa"
)

func newKeywordsCommand(getConfig func() *config.Config) *cobra.Command {
	var (
		platform  string
		meetingID string
	)

	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Extract keywords from a meeting transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := vexa.NewClient(getConfig())

			var segments []vexa.Segment
			err := resilience.Retry(cmd.Context(), func() error {
				var fetchErr error
				segments, fetchErr = client.GetTranscript(cmd.Context(), platform, meetingID)
				return fetchErr
			}, nil)
			if err != nil {
				return err
			}
			if len(segments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no transcript yet")
				return nil
			}

			sink := render.NewConsole(cmd.OutOrStdout(), nil)
			sink.Keywords(keywords.FromSegments(segments))
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "google_meet", "Meeting platform")
	cmd.Flags().StringVar(&meetingID, "meeting-id", "", "Native meeting ID")
	cmd.MarkFlagRequired("meeting-id")

	return cmd
}
