package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vexalabs/meetwatch/internal/config"
	"github.com/vexalabs/meetwatch/internal/vexa"
)

func newBotCommand(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Manage transcription bots directly",
	}

	cmd.AddCommand(newBotRequestCommand(getConfig))
	cmd.AddCommand(newBotStopCommand(getConfig))
	cmd.AddCommand(newBotConfigCommand(getConfig))

	return cmd
}

func newBotRequestCommand(getConfig func() *config.Config) *cobra.Command {
	var (
		platform  string
		meetingID string
		botName   string
	)

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Dispatch a bot without watching",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			if botName == "" {
				botName = cfg.BotName
			}

			client := vexa.NewClient(cfg)
			info, err := client.RequestBot(cmd.Context(), platform, meetingID, botName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bot dispatched to %s/%s (%s)\n", platform, meetingID, info.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "google_meet", "Meeting platform")
	cmd.Flags().StringVar(&meetingID, "meeting-id", "", "Native meeting ID")
	cmd.Flags().StringVar(&botName, "bot-name", "", "Display name for the bot")
	cmd.MarkFlagRequired("meeting-id")

	return cmd
}

func newBotStopCommand(getConfig func() *config.Config) *cobra.Command {
	var (
		platform  string
		meetingID string
	)

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Remove a bot from a meeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := vexa.NewClient(getConfig())
			if err := client.StopBot(cmd.Context(), platform, meetingID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bot removed from %s/%s\n", platform, meetingID)
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "google_meet", "Meeting platform")
	cmd.Flags().StringVar(&meetingID, "meeting-id", "", "Native meeting ID")
	cmd.MarkFlagRequired("meeting-id")

	return cmd
}

func newBotConfigCommand(getConfig func() *config.Config) *cobra.Command {
	var (
		platform  string
		meetingID string
		language  string
		task      string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Update the language or task of a running bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := vexa.NewClient(getConfig())
			if err := client.UpdateBotConfig(cmd.Context(), platform, meetingID, language, task); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "bot config updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "google_meet", "Meeting platform")
	cmd.Flags().StringVar(&meetingID, "meeting-id", "", "Native meeting ID")
	cmd.Flags().StringVar(&language, "language", "", "Transcription language code")
	cmd.Flags().StringVar(&task, "task", "", "Transcription task (transcribe, translate)")
	cmd.MarkFlagRequired("meeting-id")

	return cmd
}
