package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tturner/pclscope/internal/metrics"
)

type metricsSummaryFlags struct {
	operation string
}

func newMetricsSummaryCmd() *cobra.Command {
	flags := &metricsSummaryFlags{}

	cmd := &cobra.Command{
		Use:   "metrics-summary <metrics.csv>...",
		Short: "Summarise run metrics written with --metrics-file",
		Example: `  pclscope metrics-summary runs.csv
  pclscope metrics-summary --operation SEND runs.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingFlagError(cmd, "<metrics.csv>")
			}
			return runMetricsSummary(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.operation, "operation", "", "Only count this operation (CLASSIFY, EXTRACT, SEND, STATUS, PML_QUERY)")
	return cmd
}

func runMetricsSummary(cmd *cobra.Command, files []string, flags *metricsSummaryFlags) error {
	sink := metrics.NewSink()
	for _, f := range files {
		loaded, err := metrics.LoadSink(f)
		if err != nil {
			return err
		}
		for _, m := range loaded.GetMetrics() {
			if flags.operation != "" && string(m.Operation) != flags.operation {
				continue
			}
			sink.Record(m)
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), metrics.FormatSummary(sink.GetSummary()))
	return nil
}
