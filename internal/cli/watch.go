package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vexalabs/meetwatch/internal/config"
	"github.com/vexalabs/meetwatch/internal/emotion"
	"github.com/vexalabs/meetwatch/internal/keywords"
	"github.com/vexalabs/meetwatch/internal/observability"
	"github.com/vexalabs/meetwatch/internal/render"
	"github.com/vexalabs/meetwatch/internal/session"
	"github.com/vexalabs/meetwatch/internal/summary"
	"github.com/vexalabs/meetwatch/internal/transcript"
	"github.com/vexalabs/meetwatch/internal/vexa"
)

func newWatchCommand(getConfig func() *config.Config) *cobra.Command {
	var (
		platform  string
		meetingID string
		botName   string
		attach    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Dispatch a bot and follow the meeting live",
		Long: `Dispatch a transcription bot into a meeting (unless --attach) and poll
the transcript until interrupted. New segments, keywords, and emotion
analytics stream to the terminal; a final summary prints on exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			if botName == "" {
				botName = cfg.BotName
			}
			return runWatch(cmd, cfg, platform, meetingID, botName, attach)
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "google_meet", "Meeting platform (google_meet, zoom, teams)")
	cmd.Flags().StringVar(&meetingID, "meeting-id", "", "Native meeting ID")
	cmd.Flags().StringVar(&botName, "bot-name", "", "Display name for the dispatched bot")
	cmd.Flags().BoolVar(&attach, "attach", false, "Watch an already-running bot without dispatching a new one")
	cmd.MarkFlagRequired("meeting-id")

	return cmd
}

func runWatch(cmd *cobra.Command, cfg *config.Config, platform, meetingID, botName string, attach bool) error {
	logger := observability.WithComponent("watch")
	client := vexa.NewClient(cfg)
	ctx := cmd.Context()

	if !attach {
		info, err := client.RequestBot(ctx, platform, meetingID, botName)
		if err != nil {
			return fmt.Errorf("bot dispatch failed: %s", userMessage(err))
		}
		logger.Info().Str("status", info.Status).Msg("Bot dispatched")
	}

	// Labels are cosmetic; a failed fetch just means undecorated output.
	labels, err := client.GetEmotionLabels(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("Emotion labels unavailable")
		labels = nil
	}

	sink := render.NewConsole(cmd.OutOrStdout(), labels)
	timer := session.NewTimer(sink.Elapsed)
	timer.AwaitAdmission()

	synchronizer := transcript.NewSynchronizer(client, platform, meetingID)
	aggregator := emotion.NewAggregator(client, platform, meetingID, cfg.TimelineLimit)
	aggregator.SetEnabled(cfg.EmotionEnabled)
	pipeline := summary.NewPipeline(client, synchronizer, platform, meetingID)

	onResult := func(result transcript.PollResult) {
		if result.Failed {
			// Any fetch failure may mean the bot lost admission; the
			// recording indicator must not stick.
			timer.Degrade()
			return
		}

		switch result.Event {
		case transcript.EventAdmitted:
			timer.MarkRecording()
			sink.SessionEvent("admitted")
		case transcript.EventDropped:
			sink.SessionEvent("dropped")
		}

		if len(result.Appended) == 0 {
			return
		}

		sink.Segments(result.Appended)
		sink.Keywords(keywords.FromSegments(synchronizer.Segments()))

		if aggregator.Enabled() {
			aggregator.Refresh(ctx)
			sink.Mood(aggregator.Distribution(), aggregator.SpeakerInsights())
		}
	}

	watcher := transcript.NewWatcher(synchronizer, cfg.PollInterval, onResult)
	if err := watcher.Start(ctx); err != nil {
		return err
	}

	var statusServer *http.Server
	if cfg.MetricsEnabled {
		statusServer = startStatusServer(cfg, watcher, synchronizer, timer, platform, meetingID)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info().Msg("Stopping watch")
	watcher.Stop()
	timer.Stop()

	// Final summary before the bot leaves; remote tiers may still be warm.
	printFinalSummary(cmd, pipeline, sink)

	if !attach {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.StopBot(stopCtx, platform, meetingID); err != nil {
			logger.Warn().Str("reason", userMessage(err)).Msg("Bot removal failed")
		}
	}

	if statusServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		statusServer.Shutdown(shutdownCtx)
	}

	return nil
}

func printFinalSummary(cmd *cobra.Command, pipeline *summary.Pipeline, sink render.Sink) {
	summaryCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := pipeline.Summarize(summaryCtx)
	if err != nil {
		if err == summary.ErrNothingToSummarize {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to summarize")
		}
		return
	}
	sink.Summary(result)
}

// startStatusServer exposes /metrics, /healthz and /statusz for the
// duration of the watch
func startStatusServer(cfg *config.Config, watcher *transcript.Watcher, synchronizer *transcript.Synchronizer, timer *session.Timer, platform, meetingID string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", observability.HealthCheckHandler())
	mux.HandleFunc("/statusz", observability.StatusHandler(func() observability.WatchStatus {
		return observability.WatchStatus{
			SessionID:        watcher.SessionID(),
			SessionState:     timer.State().String(),
			Platform:         platform,
			MeetingID:        meetingID,
			TranscriptLength: synchronizer.Len(),
			ElapsedSeconds:   int64(timer.Elapsed().Seconds()),
		}
	}))

	server := &http.Server{
		Addr:         ":" + cfg.MetricsPort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger := observability.WithComponent("status")
		logger.Info().Str("port", cfg.MetricsPort).Msg("Status listener started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn().Err(err).Msg("Status listener failed")
		}
	}()

	return server
}
