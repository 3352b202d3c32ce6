package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vexalabs/meetwatch/internal/config"
	"github.com/vexalabs/meetwatch/internal/vexa"
)

func newMoodCommand(getConfig func() *config.Config) *cobra.Command {
	var (
		platform  string
		meetingID string
	)

	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Show the dominant mood per speaker",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := vexa.NewClient(getConfig())

			report, err := client.GetMood(cmd.Context(), platform, meetingID)
			if err != nil {
				return err
			}
			if len(report.Moods) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no mood data yet")
				return nil
			}

			speakers := make([]string, 0, len(report.Moods))
			for speaker := range report.Moods {
				speakers = append(speakers, speaker)
			}
			sort.Strings(speakers)

			for _, speaker := range speakers {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", speaker, report.Moods[speaker].Dominant)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "google_meet", "Meeting platform")
	cmd.Flags().StringVar(&meetingID, "meeting-id", "", "Native meeting ID")
	cmd.MarkFlagRequired("meeting-id")

	return cmd
}
