package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tturner/pclscope/internal/app"
)

type analyseFlags struct {
	app.AnalyseOptions
}

func newAnalyseCmd() *cobra.Command {
	flags := &analyseFlags{}

	cmd := &cobra.Command{
		Use:     "analyse <file>...",
		Aliases: []string{"analyze", "a"},
		Short:   "Classify print jobs row by row",
		Long: `Walk each print job byte by byte and print one row per recognised unit:
control codes, escape sequences, PCL XL operators and attributes, HP-GL/2,
PJL and Prescribe commands, embedded PML and binary data. Language switches
are followed automatically. Use "-" to read standard input.`,
		Example: `  pclscope analyse job.prn
  pclscope analyse --format json --stats job.pcl > job.json
  pclscope analyse --dialect pclxl --hex page.pxl
  cat job.prn | pclscope analyse -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingFlagError(cmd, "<file>")
			}
			flags.Inputs = args
			return runAnalyse(cmd, flags)
		},
	}

	classifyFlagSet(cmd, &flags.ClassifyFlags)
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Output format: text, json, csv (default from config)")
	cmd.Flags().BoolVar(&flags.Stats, "stats", false, "Append usage statistics")
	cmd.Flags().BoolVar(&flags.Summary, "summary", false, "Append a per-language summary")
	cmd.Flags().BoolVarP(&flags.Hex, "hex", "x", false, "Show raw bytes for each row")
	cmd.Flags().BoolVar(&flags.NoColor, "no-color", false, "Disable colour output")
	cmd.Flags().StringVarP(&flags.OutputPath, "output", "o", "", "Write the report to a file")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Append run metrics to this CSV")
	cmd.Flags().BoolVar(&flags.FailOnError, "fail-on-error", false, "Exit non-zero when the data has error rows")

	return cmd
}

func runAnalyse(cmd *cobra.Command, flags *analyseFlags) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := app.SignalContext()
	defer cancel()

	flags.Version = version
	return app.Analyse(ctx, env, flags.AnalyseOptions, os.Stdin, cmd.OutOrStdout())
}

func newStatsCmd() *cobra.Command {
	flags := &analyseFlags{}

	cmd := &cobra.Command{
		Use:   "stats <file>...",
		Short: "Count how often each sequence and command is used",
		Long: `Classify the inputs and print only the usage counts, split into uses at
job level and uses inside macro definitions. With several inputs a combined
table follows the per-file tables.`,
		Example: `  pclscope stats jobs/*.prn
  pclscope stats --format csv job.pcl > usage.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingFlagError(cmd, "<file>")
			}
			flags.Inputs = args
			flags.StatsOnly = true
			return runAnalyse(cmd, flags)
		},
	}

	classifyFlagSet(cmd, &flags.ClassifyFlags)
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Output format: text, json, csv")
	cmd.Flags().BoolVar(&flags.NoColor, "no-color", false, "Disable colour output")
	cmd.Flags().StringVarP(&flags.OutputPath, "output", "o", "", "Write the table to a file")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Append run metrics to this CSV")

	return cmd
}
