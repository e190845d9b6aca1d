package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/okian/opteams/internal/adapters/render"
	"github.com/okian/opteams/internal/app"
	"github.com/okian/opteams/internal/config"
	"github.com/okian/opteams/pkg/logger"
	"github.com/okian/opteams/pkg/metrics"
)

// Metrics listener timeouts.
const (
	metricsReadTimeout       = 10 * time.Second
	metricsWriteTimeout      = 10 * time.Second
	metricsReadHeaderTimeout = 5 * time.Second
)

type buildFlags struct {
	stat        string
	target      int
	minHigh     int
	minMid      int
	highValue   int
	midValue    int
	maxSize     int
	maxCombined int
	keywords    []string
	parallelism int
	save        bool
	out         string
	metricsAddr string
	logLevel    string
}

func newBuildCmd() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build <characters.csv>",
		Short: "Build every valid team for a primary stat",
		Long: "Reads a character table and enumerates every team whose primary-stat " +
			"values sum to the target total under the configured tier and reserve rules.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.stat, "stat", "s", "", "Primary stat (Energy, Fighting, Strength, Intellect, Threat)")
	cmd.Flags().IntVar(&flags.target, "target", 0, "Exact primary-stat total a team must reach")
	cmd.Flags().IntVar(&flags.minHigh, "min-high", 0, "Minimum number of high-tier members")
	cmd.Flags().IntVar(&flags.minMid, "min-mid", 0, "Additional members required at mid or high tier")
	cmd.Flags().IntVar(&flags.highValue, "high-value", 0, "Stat value classifying a member as high tier")
	cmd.Flags().IntVar(&flags.midValue, "mid-value", 0, "Stat value classifying a member as mid tier")
	cmd.Flags().IntVar(&flags.maxSize, "max-size", 0, "Maximum team size")
	cmd.Flags().IntVar(&flags.maxCombined, "max-combined", 0, "Cap on the team-wide sum of the four power stats (0 disables)")
	cmd.Flags().StringSliceVar(&flags.keywords, "reserve-keyword", nil, "Keyword qualifying special text as reserve-eligible (repeatable)")
	cmd.Flags().IntVar(&flags.parallelism, "parallelism", 0, "Number of search goroutines")
	cmd.Flags().BoolVar(&flags.save, "save", false, "Write the table to a file instead of stdout")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Output file (default <stat>_teams.txt)")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log verbosity: debug, info, warn, error")

	return cmd
}

func runBuild(cmd *cobra.Command, tablePath string, flags buildFlags) error {
	ctx := cmd.Context()

	// Config file and env first, explicit flags last.
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg, &flags)

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr)
	}

	source, err := os.Open(tablePath)
	if err != nil {
		return fmt.Errorf("opening character table: %w", err)
	}
	defer source.Close()

	svc := app.New(
		app.WithRules(cfg.Rules(cfg.PrimaryStat)),
		app.WithParallelism(cfg.Parallelism),
	)

	result, err := svc.BuildTeams(ctx, source, cfg.PrimaryStat)
	if err != nil {
		return err
	}

	table := render.NewTable(result.Teams)
	if cfg.Save {
		out := cfg.OutputFile
		if out == "" {
			out = fmt.Sprintf("%s_teams.txt", result.PrimaryStat)
		}
		if err := table.Save(out); err != nil {
			return err
		}
		fmt.Printf("Exported %d teams to %q\n", table.Len(), out)
		return nil
	}

	return table.Write(os.Stdout)
}

// applyFlagOverrides layers explicitly set flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, flags *buildFlags) {
	set := cmd.Flags().Changed
	if set("stat") {
		cfg.PrimaryStat = flags.stat
	}
	if set("target") {
		cfg.TargetTotal = flags.target
	}
	if set("min-high") {
		cfg.MinHighTier = flags.minHigh
	}
	if set("min-mid") {
		cfg.MinMidTier = flags.minMid
	}
	if set("high-value") {
		cfg.HighTierValue = flags.highValue
	}
	if set("mid-value") {
		cfg.MidTierValue = flags.midValue
	}
	if set("max-size") {
		cfg.MaxTeamSize = flags.maxSize
	}
	if set("max-combined") {
		cfg.MaxCombinedTotal = flags.maxCombined
	}
	if set("reserve-keyword") {
		cfg.ReserveKeywords = flags.keywords
	}
	if set("parallelism") {
		cfg.Parallelism = flags.parallelism
	}
	if set("save") {
		cfg.Save = flags.save
	}
	if set("out") {
		cfg.OutputFile = flags.out
	}
	if set("metrics-addr") {
		cfg.MetricsAddr = flags.metricsAddr
	}
	if set("log-level") {
		cfg.LogLevel = flags.logLevel
	}
}

// serveMetrics exposes the Prometheus registry for long enumerations.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       metricsReadTimeout,
		WriteTimeout:      metricsWriteTimeout,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	logger.Get().Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Get().Error(ctx, "metrics listener failed", logger.Error(err))
	}
}
