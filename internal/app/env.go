package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tturner/pclscope/internal/config"
	"github.com/tturner/pclscope/internal/logging"
	"github.com/tturner/pclscope/internal/metrics"
	"github.com/tturner/pclscope/internal/pstream/catalog"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	// ConfigSet is true when the path was given explicitly, in which case
	// the file must exist.
	ConfigSet bool
	LogFile   string
	Verbose   bool
	Debug     bool
	Quiet     bool
}

// Env is the loaded configuration and logger for one command.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Logger     *logging.Logger
}

// Setup loads the configuration and opens the logger. Flags override the
// logging section of the file.
func Setup(opts GlobalOptions) (*Env, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigSet {
		cfg, err = config.Load(path, false)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.LogLevel()
	switch {
	case opts.Debug:
		level = logging.LogLevelDebug
	case opts.Verbose:
		level = logging.LogLevelVerbose
	case opts.Quiet:
		level = logging.LogLevelError
	}
	logFile := cfg.Logging.LogFile
	if opts.LogFile != "" {
		logFile = opts.LogFile
	}
	logger, err := logging.NewLoggerWithOptions(level, logFile, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.Debug("configuration: %s", path)
	return &Env{Config: cfg, ConfigPath: path, Logger: logger}, nil
}

// Close flushes the log file.
func (e *Env) Close() error {
	return e.Logger.Close()
}

// Dictionary returns the built-in tables overlaid with the configured
// catalogs and any extra ones.
func (e *Env) Dictionary(extra ...string) (*tags.Dictionary, error) {
	paths := append(append([]string{}, e.Config.Analysis.Catalogs...), extra...)
	if len(paths) == 0 {
		return tags.Default(), nil
	}
	dict, err := catalog.Overlay(tags.Default(), paths...)
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}
	e.Logger.Verbose("dictionary: %d entries after %d catalog(s)", dict.Len(), len(paths))
	return dict, nil
}

// recorder writes run metrics when a metrics file is configured.
type recorder struct {
	sink   *metrics.Sink
	writer *metrics.Writer
	logger *logging.Logger
}

func (e *Env) newRecorder(path string) (*recorder, error) {
	if path == "" {
		path = e.Config.Output.MetricsFile
	}
	r := &recorder{sink: metrics.NewSink(), logger: e.Logger}
	if path == "" {
		return r, nil
	}
	w, err := metrics.NewWriter(path, "")
	if err != nil {
		return nil, fmt.Errorf("create metrics writer: %w", err)
	}
	r.writer = w
	return r, nil
}

func (r *recorder) record(m metrics.Metric) {
	r.sink.Record(m)
	if r.writer == nil {
		return
	}
	if err := r.writer.WriteMetric(m); err != nil {
		r.logger.Error("write metric: %v", err)
	}
}

func (r *recorder) close() {
	if r.writer != nil {
		if err := r.writer.Close(); err != nil {
			r.logger.Error("close metrics: %v", err)
		}
	}
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
