package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"NiftySentinel/internal/analyzer"
	"NiftySentinel/internal/model"
	"NiftySentinel/internal/notifier"
	"NiftySentinel/internal/strategy"
)

// Evaluator runs evaluations; *analyzer.Analyzer satisfies it.
type Evaluator interface {
	Run(ctx context.Context, req analyzer.Request) (*model.Evaluation, error)
	Health(ctx context.Context) (model.TechnicalHealth, error)
}

// Sender delivers reports; *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron tasks and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Evaluator Evaluator
	Notifier  Sender
	RuleSet   *strategy.RuleSet
	Ctx       context.Context
}

// NewScheduler creates a Scheduler whose cron runs in loc.
func NewScheduler(ctx context.Context, ev Evaluator, n Sender, rs *strategy.RuleSet, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Evaluator: ev,
		Notifier:  n,
		RuleSet:   rs,
		Ctx:       ctx,
	}
}

// RegisterAll registers the pre-open evaluation.
func (s *Scheduler) RegisterAll(preOpenCron string) error {
	if _, err := s.Cron.AddFunc(preOpenCron, s.preOpenTask); err != nil {
		return fmt.Errorf("register pre-open task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Str("ruleset", s.RuleSet.Version).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunPreOpenNow executes the pre-open task immediately.
func (s *Scheduler) RunPreOpenNow() {
	s.preOpenTask()
}

func (s *Scheduler) preOpenTask() {
	log.Info().Str("ruleset", s.RuleSet.Version).Msg("running pre-open evaluation")
	ev, err := s.Evaluator.Run(s.Ctx, analyzer.Request{RuleSet: s.RuleSet})
	if err != nil {
		log.Error().Err(err).Msg("pre-open evaluation")
		s.trySend(notifier.FormatError("pre-open evaluation", err))
		return
	}
	s.trySend(notifier.FormatVerdict(ev))
}

// HandleCommand processes a chat command and returns a reply.
//
//	/verdict [version] [quote]   evaluate now, optionally with another rule set or a manual quote
//	/technicals                  index RSI zone and SMA200 trend
//	/rulesets                    list the registered rule sets
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage()
	}
	switch fields[0] {
	case "/verdict":
		req, err := s.parseVerdict(fields[1:])
		if err != nil {
			return notifier.FormatError("verdict", err)
		}
		ev, err := s.Evaluator.Run(ctx, req)
		if err != nil {
			return notifier.FormatError("verdict", err)
		}
		return notifier.FormatVerdict(ev)
	case "/technicals":
		h, err := s.Evaluator.Health(ctx)
		if err != nil {
			return notifier.FormatError("technicals", err)
		}
		return notifier.FormatHealth(h)
	case "/rulesets":
		return notifier.FormatRuleSets(strategy.All())
	default:
		return usage()
	}
}

func (s *Scheduler) parseVerdict(args []string) (analyzer.Request, error) {
	req := analyzer.Request{RuleSet: s.RuleSet}
	for _, arg := range args {
		if v, err := strconv.ParseFloat(arg, 64); err == nil {
			if v <= 0 {
				return req, fmt.Errorf("quote must be positive, got %s", arg)
			}
			req.ManualQuote = &v
			continue
		}
		rs, err := strategy.Lookup(arg)
		if err != nil {
			return req, err
		}
		req.RuleSet = rs
	}
	return req, nil
}

func usage() string {
	return "Available commands:\n• /verdict [v1-v4] [quote]\n• /technicals\n• /rulesets"
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
