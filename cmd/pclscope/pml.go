package main

import (
	"github.com/spf13/cobra"
	"github.com/tturner/pclscope/internal/app"
)

type pmlQueryFlags struct {
	app.PMLOptions
}

func newPMLQueryCmd() *cobra.Command {
	flags := &pmlQueryFlags{}

	cmd := &cobra.Command{
		Use:   "pml-query [oid]...",
		Short: "Read PML objects over SNMP",
		Long: `Read Printer Management Language objects through the HP enterprise SNMP
subtree. OIDs are PML object ids such as 1.1.3.3.0; full SNMP OIDs are
accepted too. --known reads a set of common counters and identifiers.
--decode decodes a PML message given in hex without contacting a device.`,
		Example: `  pclscope pml-query --target 10.0.0.20 --known
  pclscope pml-query -p lab 1.3.9.0 1.4.4.7.0
  pclscope pml-query --target 10.0.0.20 --walk 1.4
  pclscope pml-query --decode "04 08 02 FF FE"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			flags.OIDs = args
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			ctx, cancel := app.SignalContext()
			defer cancel()
			return app.PMLQuery(ctx, env, flags.PMLOptions, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.Target, "target", "", "SNMP agent host[:port]")
	cmd.Flags().StringVarP(&flags.Printer, "printer", "p", "", "Use the host of a configured printer")
	cmd.Flags().StringVar(&flags.Walk, "walk", "", "Walk every object below this PML OID")
	cmd.Flags().BoolVar(&flags.Known, "known", false, "Query the built-in list of common objects")
	cmd.Flags().StringVar(&flags.Community, "community", "", "SNMP community (default from config)")
	cmd.Flags().StringVar(&flags.Version, "snmp-version", "", "SNMP version: 1 or 2c")
	cmd.Flags().StringVar(&flags.Decode, "decode", "", "Decode a hex PML message locally")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Append run metrics to this CSV")

	return cmd
}
