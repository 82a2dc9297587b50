package main

import (
	"os"

	"github.com/spf13/cobra"

	"NiftySentinel/internal/notifier"
	"NiftySentinel/internal/strategy"
)

func newRuleSetsCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rulesets",
		Short: "List the registered rule-set versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return notifier.RenderRuleSets(os.Stdout, strategy.All())
		},
	}
}
