package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vexalabs/meetwatch/internal/config"
	"github.com/vexalabs/meetwatch/internal/render"
	"github.com/vexalabs/meetwatch/internal/resilience"
	"github.com/vexalabs/meetwatch/internal/summary"
	"github.com/vexalabs/meetwatch/internal/vexa"
)

// staticSource adapts a one-shot transcript fetch to the pipeline's
// segment source
type staticSource struct {
	segments []vexa.Segment
}

func (s *staticSource) Segments() []vexa.Segment {
	return s.segments
}

func newSummaryCommand(getConfig func() *config.Config) *cobra.Command {
	var (
		platform  string
		meetingID string
		outFile   string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize a meeting transcript",
		Long: `Fetch the transcript once and produce a summary through the tier chain:
remote narrative summary, remote bulleted summary, then a local extract
built from term frequencies. With --out, the raw markdown (or rendered
text) is also written to a file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			client := vexa.NewClient(cfg)
			ctx := cmd.Context()

			var segments []vexa.Segment
			err := resilience.Retry(ctx, func() error {
				var fetchErr error
				segments, fetchErr = client.GetTranscript(ctx, platform, meetingID)
				return fetchErr
			}, nil)
			if err != nil {
				return err
			}

			pipeline := summary.NewPipeline(client, &staticSource{segments: segments}, platform, meetingID)
			result, err := pipeline.Summarize(ctx)
			if err == summary.ErrNothingToSummarize {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to summarize")
				return nil
			}
			if err != nil {
				return err
			}

			sink := render.NewConsole(cmd.OutOrStdout(), nil)
			sink.Summary(result)

			if outFile != "" {
				if err := exportSummary(outFile, result); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "summary written to %s\n", outFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "google_meet", "Meeting platform")
	cmd.Flags().StringVar(&meetingID, "meeting-id", "", "Native meeting ID")
	cmd.Flags().StringVar(&outFile, "out", "", "Write the summary to a file")
	cmd.MarkFlagRequired("meeting-id")

	return cmd
}

// exportSummary writes the raw markdown when the generative tier produced
// it, and a plain-text rendering otherwise
func exportSummary(path string, result *summary.Summary) error {
	content := result.Markdown
	if content == "" {
		for _, block := range result.Blocks {
			switch block.Kind {
			case summary.BlockHeading:
				content += "# " + block.Text + "\n"
			case summary.BlockBullet:
				content += "- " + block.Text + "\n"
			case summary.BlockBreak:
				content += "\n"
			default:
				content += block.Text + "\n"
			}
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
