package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/tturner/pclscope/internal/app"
)

type pcapExtractFlags struct {
	app.ExtractOptions
	durationSec    int
	listInterfaces bool
}

func newPcapExtractCmd() *cobra.Command {
	flags := &pcapExtractFlags{}

	cmd := &cobra.Command{
		Use:   "pcap-extract <capture>...",
		Short: "Pull print jobs out of packet captures",
		Long: `Reassemble TCP streams to raw-print (9100) and LPD (515) ports from pcap or
pcapng files and write each job to the output directory. LPD control and
data files are separated. With --live the job streams are captured from a
network interface instead.`,
		Example: `  pclscope pcap-extract --out jobs/ office.pcap
  pclscope pcap-extract --classify --preview 64 captures/
  pclscope pcap-extract --live eth0 --duration 60 --out jobs/
  pclscope pcap-extract --live auto --printer lab --save session.pcap`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if flags.listInterfaces {
				return app.ListInterfaces(cmd.OutOrStdout())
			}
			flags.Inputs = args
			if len(flags.Inputs) == 0 && flags.Live == "" {
				return missingFlagError(cmd, "<capture> or --live")
			}
			return runPcapExtract(cmd, flags)
		},
	}

	classifyFlagSet(cmd, &flags.ClassifyFlags)
	cmd.Flags().StringVar(&flags.Live, "live", "", "Capture from this interface, or \"auto\" for the one routing to --printer")
	cmd.Flags().StringVarP(&flags.Printer, "printer", "p", "", "Configured printer used by --live auto")
	cmd.Flags().BoolVar(&flags.listInterfaces, "list-interfaces", false, "List capture interfaces and exit")
	cmd.Flags().IntVar(&flags.durationSec, "duration", 0, "Live capture duration in seconds (0 = until interrupted)")
	cmd.Flags().StringVar(&flags.SavePath, "save", "", "Record the filtered live packets to this pcap file")
	cmd.Flags().IntSliceVar(&flags.Ports, "port", nil, "TCP ports carrying print data (default from config)")
	cmd.Flags().StringVar(&flags.OutDir, "out", "", "Write extracted jobs to this directory")
	cmd.Flags().IntVar(&flags.Preview, "preview", 0, "Hex dump the first N bytes of each job")
	cmd.Flags().BoolVar(&flags.Classify, "classify", false, "Classify each extracted job")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Append run metrics to this CSV")

	return cmd
}

func runPcapExtract(cmd *cobra.Command, flags *pcapExtractFlags) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := app.SignalContext()
	defer cancel()

	flags.Duration = time.Duration(flags.durationSec) * time.Second
	return app.ExtractPCAP(ctx, env, flags.ExtractOptions, cmd.OutOrStdout())
}
