package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/tturner/pclscope/internal/pstream/symsets"
)

func newSymsetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symsets",
		Short: "List PCL symbol sets and their character maps",
	}
	cmd.AddCommand(newSymsetsListCmd())
	cmd.AddCommand(newSymsetsShowCmd())
	return cmd
}

func newSymsetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every symbol set in the map table",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-6s %-6s %-7s %-9s %-7s %s\n", "ID", "KIND1", "TYPE", "INDEX", "MAPPED", "NAME")
			fmt.Fprintln(out, strings.Repeat("-", 70))
			for _, s := range symsets.All() {
				fmt.Fprintf(out, "%-6s %-6d %-7s %-9s %-7d %s\n", s.ID, s.Kind1, s.Type, s.Index, s.Mapped(), s.Name)
			}
			return nil
		},
	}
}

func newSymsetsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show <id>",
		Short:   "Print the byte to Unicode map of one symbol set",
		Example: "  pclscope symsets show 8U",
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingFlagError(cmd, "<id>")
			}
			s, ok := symsets.ByID(args[0])
			if !ok {
				return fmt.Errorf("unknown symbol set %q", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  (kind1 %d, %s, %s)\n", s.ID, s.Name, s.Kind1, s.Type, s.Index)
			if s.Requirements != 0 {
				fmt.Fprintf(out, "Requires: %s\n", symsets.DescribeMask(s.Requirements))
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, "    ")
			for col := 0; col < 16; col++ {
				fmt.Fprintf(out, " %X", col)
			}
			fmt.Fprintln(out)
			for row := 0; row < 16; row++ {
				fmt.Fprintf(out, "%X_  ", row)
				for col := 0; col < 16; col++ {
					r, ok := s.Decode(byte(row<<4 | col))
					if !ok || !unicode.IsPrint(r) {
						fmt.Fprint(out, " .")
						continue
					}
					fmt.Fprintf(out, " %c", r)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	return cmd
}
