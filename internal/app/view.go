package app

import (
	"context"
	"io"

	"github.com/tturner/pclscope/internal/tui"
)

// ViewOptions configures the interactive viewer.
type ViewOptions struct {
	ClassifyFlags
	File string
}

// View classifies a file and opens it in the terminal viewer. Without a
// file the open form asks for one.
func View(ctx context.Context, env *Env, opts ViewOptions, stdin io.Reader) error {
	if opts.File == "" {
		req, err := tui.AskOpen()
		if err != nil {
			return err
		}
		opts.File = req.Path
		if req.Dialect != "auto" {
			opts.Dialect = req.Dialect
		}
	}
	data, err := ReadInput(opts.File, stdin)
	if err != nil {
		return err
	}
	copts, err := env.ClassifyOptions(opts.ClassifyFlags)
	if err != nil {
		return err
	}
	a, err := env.Classify(ctx, opts.File, data, copts, opts.Progress)
	if err != nil {
		return err
	}
	return tui.Run(ctx, a.Source, a.Result, a.Stats)
}
