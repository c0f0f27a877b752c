package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pclscope",
		Short: "HP printer language stream analyser",
		Long: `pclscope classifies print jobs written in PCL, PCL XL, HP-GL/2, PJL,
PML and Kyocera Prescribe. It lists every escape sequence, operator and
command with its meaning, counts how often each one is used, pulls jobs out
of packet captures and talks to printers over TCP, serial, USB and ssh.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globals.ConfigPath, "config", "", "Config file (default pclscope.yaml when present)")
	pf.StringVar(&globals.LogFile, "log-file", "", "Write logs to this file")
	pf.BoolVarP(&globals.Verbose, "verbose", "v", false, "Verbose logging")
	pf.BoolVar(&globals.Debug, "debug", false, "Debug logging with hex dumps")
	pf.BoolVarP(&globals.Quiet, "quiet", "q", false, "Only log errors")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newAnalyseCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newTagsCmd())
	rootCmd.AddCommand(newSymsetsCmd())
	rootCmd.AddCommand(newPcapExtractCmd())
	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newPMLQueryCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMetricsSummaryCmd())

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Usage:\n  %s <command> [arguments] [options]\n\n", cmd.Name())
		fmt.Fprintf(out, "Available Commands:\n")
		for _, subCmd := range cmd.Commands() {
			if !subCmd.Hidden && subCmd.Name() != "completion" {
				fmt.Fprintf(out, "  %-15s %s\n", subCmd.Name(), subCmd.Short)
			}
		}
		fmt.Fprintf(out, "\nUse \"%s help <command>\" for more information about a command.\n", cmd.Name())
	})
	return rootCmd
}
