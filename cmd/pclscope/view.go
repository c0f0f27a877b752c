package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tturner/pclscope/internal/app"
)

func newViewCmd() *cobra.Command {
	opts := &app.ViewOptions{}

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse a classified job in the terminal",
		Long: `Open the interactive viewer. Rows can be filtered by text, narrowed to one
language or to warnings and errors, and copied to the clipboard. Without a
file a form asks for one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 1 {
				opts.File = args[0]
			}
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			ctx, cancel := app.SignalContext()
			defer cancel()
			return app.View(ctx, env, *opts, os.Stdin)
		},
	}

	classifyFlagSet(cmd, &opts.ClassifyFlags)
	return cmd
}
