package main

import (
	"github.com/spf13/cobra"
	"github.com/tturner/pclscope/internal/app"
	"github.com/tturner/pclscope/internal/tui"
)

type sendFlags struct {
	app.SendOptions
}

func newSendCmd() *cobra.Command {
	flags := &sendFlags{}

	cmd := &cobra.Command{
		Use:   "send <file>...",
		Short: "Send print jobs to a printer",
		Long: `Send files unchanged to a printer over raw TCP, a serial line, USB or an
ssh spool host. A confirmation form shows the target and the languages in
the job before anything is sent; --yes or "confirm: false" in the config
skips it.`,
		Example: `  pclscope send --printer lab job.prn
  pclscope send --address 10.0.0.20 --yes test.pcl
  pclscope send --driver serial --address /dev/ttyUSB0 plot.hpgl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingFlagError(cmd, "<file>")
			}
			flags.Files = args
			return runSend(cmd, flags)
		},
	}

	printerFlagSet(cmd, &flags.PrinterFlags)
	classifyFlagSet(cmd, &flags.ClassifyFlags)
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Send without asking")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Append run metrics to this CSV")

	return cmd
}

func runSend(cmd *cobra.Command, flags *sendFlags) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := app.SignalContext()
	defer cancel()

	return app.Send(ctx, env, flags.SendOptions, tui.ConfirmSend, cmd.OutOrStdout())
}

type statusFlags struct {
	app.StatusOptions
}

func newStatusCmd() *cobra.Command {
	flags := &statusFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Query a printer's PJL status",
		Long: `Ask the printer for its model and status code over PJL and print the
reply. --command sends arbitrary PJL queries instead, for example
"INFO CONFIG" or "INQUIRE RESOLUTION".`,
		Example: `  pclscope status --printer lab
  pclscope status --address 10.0.0.20 --format json
  pclscope status -p lab --command "INFO CONFIG" --command "INFO MEMORY"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			ctx, cancel := app.SignalContext()
			defer cancel()
			return app.Status(ctx, env, flags.StatusOptions, cmd.OutOrStdout())
		},
	}

	printerFlagSet(cmd, &flags.PrinterFlags)
	cmd.Flags().StringArrayVar(&flags.Commands, "command", nil, "PJL command to send instead of the status query (repeatable)")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flags.Raw, "raw", false, "Include the raw reply")
	cmd.Flags().BoolVar(&flags.Classify, "classify", false, "Classify the reply as PJL")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Append run metrics to this CSV")

	return cmd
}
