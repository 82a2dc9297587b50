package main

import (
	"os"

	"github.com/spf13/cobra"

	"NiftySentinel/internal/notifier"
	"NiftySentinel/internal/recorder"
)

func newTechnicalsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "technicals",
		Short: "Show the index RSI zone and SMA200 trend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := opts.newAnalyzer(recorder.NewNoopRecorder()).Health(cmd.Context())
			if err != nil {
				return err
			}
			return notifier.RenderHealth(os.Stdout, h)
		},
	}
}
