package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"NiftySentinel/internal/notifier"
	"NiftySentinel/internal/scheduler"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the pre-open schedule, Telegram commands and /metrics until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if err := cfg.ValidateTelegram(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			rs, err := opts.selectedRuleSet()
			if err != nil {
				return err
			}
			loc, err := time.LoadLocation(cfg.Schedule.Timezone)
			if err != nil {
				return fmt.Errorf("load timezone: %w", err)
			}

			ctx := cmd.Context()
			rec := opts.newRecorder()
			defer rec.Close()

			tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
			sched := scheduler.NewScheduler(ctx, opts.newAnalyzer(rec), tn, rs, loc)
			if err := sched.RegisterAll(cfg.Schedule.PreOpenCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Info().Msg("telegram polling started")

			srv := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: metricsMux(), ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Str("addr", srv.Addr).Msg("metrics server")
				}
			}()
			log.Info().Str("addr", srv.Addr).Msg("metrics server listening")

			if runOnStart {
				go sched.RunPreOpenNow()
			}

			log.Info().Str("cron", cfg.Schedule.PreOpenCron).Str("tz", loc.String()).Msg("NiftySentinel is running, press Ctrl+C to stop")
			<-ctx.Done()

			log.Info().Msg("shutdown signal received, stopping")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "evaluate once immediately after starting")
	return cmd
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}
