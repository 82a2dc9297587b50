package main

import (
	"os"

	"github.com/spf13/cobra"

	"NiftySentinel/internal/analyzer"
	"NiftySentinel/internal/notifier"
)

func newEvaluateCmd(opts *rootOptions) *cobra.Command {
	var manual float64

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the pre-open verdict once and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rs, err := opts.selectedRuleSet()
			if err != nil {
				return err
			}
			rec := opts.newRecorder()
			defer rec.Close()

			req := analyzer.Request{RuleSet: rs}
			if cmd.Flags().Changed("quote") {
				req.ManualQuote = &manual
			}
			ev, err := opts.newAnalyzer(rec).Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			return notifier.RenderEvaluation(os.Stdout, ev)
		},
	}
	cmd.Flags().Float64Var(&manual, "quote", 0, "manual GIFT Nifty quote; skips the scraper")
	return cmd
}
