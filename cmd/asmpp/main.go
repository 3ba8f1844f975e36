package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwessels/asmpp/internal/config"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var log = logging.MustGetLogger("asmpp")

var (
	colorFormat = logging.MustStringFormatter(
		"%{color}%{time:15:04:05} ▶ %{level:.4s}%{color:reset} %{message}",
	)
	plainFormat = logging.MustStringFormatter(
		"%{time:15:04:05} %{level:.4s} %{message}",
	)
)

type options struct {
	output      string
	includeDirs []string
	configPath  string
	verbose     bool
	listMacros  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "asmpp [flags] <filename.s/.asm>",
		Short: "Preprocess assembly source before it is assembled",
		Long: `Asmpp resolves .include "path" directives, collects
.macro name = (a, b): { body } definitions, expands name(x, y)
invocations and drops everything after the first .end.

The result is written to stdout unless -o is given. Include paths are taken
literally; directories given with -I or in the config file are searched when
nothing exists at the literal path.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "write the result to `file` instead of stdout")
	flags.StringArrayVarP(&opts.includeDirs, "include", "I", nil, "search `dir` for included files")
	flags.StringVar(&opts.configPath, "config", "", "load settings from JSON `file` (default $ASMPP_CONFIG_PATH or .asmpp.json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every include, definition and expansion")
	flags.BoolVar(&opts.listMacros, "macros", false, "print the macro definitions instead of the expanded source")
	return cmd
}

func isSource(fname string) bool {
	fname = strings.ToLower(fname)
	return strings.HasSuffix(fname, ".asm") || strings.HasSuffix(fname, ".s")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}
	config.CheckSettingsOverRide()
	c, err := config.LoadConfig(config.DefaultConfigPath)
	if os.IsNotExist(err) {
		return config.NewDefaultConfig(), nil
	}
	return c, err
}

func setupLogging(w io.Writer, level logging.Level) {
	format := plainFormat
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		format = colorFormat
	}
	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

func run(cmd *cobra.Command, opts *options, fname string) error {
	if !isSource(fname) {
		return fmt.Errorf("usage: asmpp <filename.s/.asm>")
	}

	c, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	c.IncludeDirs = append(c.IncludeDirs, opts.includeDirs...)
	level := c.Level()
	if opts.verbose {
		level = logging.DEBUG
	}
	setupLogging(cmd.ErrOrStderr(), level)

	buf, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	pp := c.NewPreprocessor()

	if opts.listMacros {
		table, err := pp.Definitions(string(buf), fname)
		if err != nil {
			return err
		}
		for _, m := range table.Macros() {
			fmt.Fprintln(cmd.OutOrStdout(), m)
		}
		return nil
	}

	processed, err := pp.ProcessString(string(buf), fname)
	if err != nil {
		return err
	}
	if opts.output == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), processed)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(processed), 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}
	log.Infof("processed %s → %s", fname, opts.output)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[Error] %v\n", err)
		os.Exit(1)
	}
}
