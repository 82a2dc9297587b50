package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"NiftySentinel/internal/analyzer"
	"NiftySentinel/internal/collector"
	"NiftySentinel/internal/config"
	"NiftySentinel/internal/model"
	"NiftySentinel/internal/quote"
	"NiftySentinel/internal/recorder"
	"NiftySentinel/internal/strategy"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	ruleSet    string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "sentinel",
		Short:         "Rule-based Nifty pre-open sentiment",
		Long:          "NiftySentinel reads overnight US, macro and futures cues and turns them into a pre-open verdict for the Nifty 50.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	root.PersistentFlags().StringVar(&opts.ruleSet, "ruleset", "", "rule-set version: v1, v2, v3 or v4 (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newEvaluateCmd(opts),
		newTechnicalsCmd(opts),
		newRuleSetsCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

func (o *rootOptions) load() error {
	cfg, err := config.Load(config.Path(o.configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.ruleSet != "" {
		cfg.RuleSet = o.ruleSet
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	o.cfg = cfg
	return nil
}

func (o *rootOptions) selectedRuleSet() (*strategy.RuleSet, error) {
	return strategy.Lookup(o.cfg.RuleSet)
}

// newRecorder opens the SQLite journal, falling back to a no-op one.
func (o *rootOptions) newRecorder() recorder.Recorder {
	if o.cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(o.cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// newAnalyzer wires provider, scraper and journal from config.
func (o *rootOptions) newAnalyzer(rec recorder.Recorder) *analyzer.Analyzer {
	cfg := o.cfg
	fetcher := collector.NewYahooFetcher(cfg.Proxy)
	log.Debug().Str("provider", fetcher.Name()).Msg("market data provider")

	scraper := quote.NewScraper(quote.Options{
		URL:       cfg.Quote.URL,
		Label:     cfg.Quote.Label,
		Floor:     cfg.Quote.Floor,
		Timeout:   cfg.Quote.Timeout,
		UserAgent: cfg.Quote.UserAgent,
		Referer:   cfg.Quote.Referer,
		Proxy:     cfg.Proxy,
		CacheTTL:  cfg.Market.CacheTTL,
	})

	return analyzer.New(collector.NewCollector(fetcher, cfg.Market.CacheTTL), scraper, rec, analyzer.Options{
		IndexSymbol:   model.Symbol(cfg.Market.IndexSymbol),
		FallbackClose: cfg.Market.FallbackClose,
	})
}
