package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tturner/pclscope/internal/app"
)

var globals app.GlobalOptions

func handleHelpArg(cmd *cobra.Command, args []string) bool {
	if len(args) == 0 {
		return false
	}
	if strings.EqualFold(args[0], "help") {
		_ = cmd.Help()
		return true
	}
	return false
}

func missingFlagError(cmd *cobra.Command, flag string) error {
	_ = cmd.Help()
	return fmt.Errorf("required flag %s not set", flag)
}

// setupEnv loads the configuration named by the global flags.
func setupEnv(cmd *cobra.Command) (*app.Env, error) {
	opts := globals
	if f := cmd.Flags().Lookup("config"); f != nil {
		opts.ConfigSet = f.Changed
	}
	return app.Setup(opts)
}

// classifyFlagSet registers the flags shared by every command that
// classifies data.
func classifyFlagSet(cmd *cobra.Command, f *app.ClassifyFlags) {
	cmd.Flags().StringVarP(&f.Dialect, "dialect", "d", "", "Starting language: auto, pcl, pclxl, hpgl2, pjl, prescribe")
	cmd.Flags().IntVar(&f.MaxRows, "max-rows", 0, "Stop after this many rows (0 = unlimited)")
	cmd.Flags().BoolVar(&f.NoText, "no-text", false, "Omit PCL text rows")
	cmd.Flags().BoolVar(&f.Whitespace, "whitespace", false, "Show PCL XL whitespace bytes")
	cmd.Flags().StringVar(&f.SymbolSet, "symbol-set", "", "Power-on symbol set id (default 8U)")
	cmd.Flags().StringSliceVar(&f.Catalogs, "catalog", nil, "YAML catalog overlaid on the built-in tables (repeatable)")
	cmd.Flags().BoolVar(&f.Progress, "progress", false, "Show a progress bar")
	cmd.PreRun = func(c *cobra.Command, _ []string) {
		f.MaxRowsSet = c.Flags().Changed("max-rows")
	}
}

func printerFlagSet(cmd *cobra.Command, f *app.PrinterFlags) {
	cmd.Flags().StringVarP(&f.Printer, "printer", "p", "", "Configured printer name")
	cmd.Flags().StringVar(&f.Driver, "driver", "", "Driver for --address: tcp, serial, usb, ssh (default tcp)")
	cmd.Flags().StringVar(&f.Address, "address", "", "Printer address, overrides --printer")
	cmd.Flags().IntVar(&f.TimeoutMs, "timeout-ms", 0, "I/O timeout in milliseconds")
}
