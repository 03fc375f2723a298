package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdisplay/pkg/config"
	"github.com/goliatone/go-formdisplay/pkg/logging"
	"github.com/goliatone/go-formdisplay/pkg/metrics"
	"github.com/goliatone/go-formdisplay/pkg/renderers/tui"
)

// defaultConfigFile is read when --config is not given and the file exists.
const defaultConfigFile = "formdisplay.yaml"

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfgFile  string
	locale   string
	logLevel string

	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Recorder

	// driver replaces the survey prompts when set.
	driver tui.PromptDriver
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		cfg:     config.Defaults(),
		logger:  logging.Discard(),
		metrics: metrics.New(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "formdisplay",
		Short: "Display, validate, and submit dynamic forms",
		Long: `formdisplay works with form schemas made of questions, options, and
show/hide conditions. It evaluates which questions are visible for a set of
answers, validates required and custom rules, encodes the submission batch,
renders the form as HTML or terminal text, and submits answers to the
GraphQL API.

Settings come from formdisplay.yaml (or --config) and FORMDISPLAY_*
environment variables; the environment wins.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file path (default "+defaultConfigFile+" when present)")
	flags.StringVar(&a.locale, "locale", "", "locale for labels and messages (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newVisibleCmd(a),
		newValidateCmd(a),
		newEncodeCmd(a),
		newRenderCmd(a),
		newFillCmd(a),
		newSubmitCmd(a),
		newServeCmd(a),
		newSchemaCmd(a),
	)
	return root
}

func (a *app) setup() error {
	path := a.cfgFile
	if path == "" && config.Exists(defaultConfigFile) {
		path = defaultConfigFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(a.locale) != "" {
		cfg.Locale = a.locale
	}
	if strings.TrimSpace(a.logLevel) != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: a.stderr,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}
