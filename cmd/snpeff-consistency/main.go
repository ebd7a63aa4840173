// Package main provides the snpeff-consistency command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	configName = ".snpeff-consistency"
	envPrefix  = "SNPEFF_CONSISTENCY"
)

// usageError marks invalid flags or arguments. It maps to ExitUsage.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs wraps a positional argument validator so its failures are usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// app carries per-invocation state shared by the subcommands.
type app struct {
	v       *viper.Viper
	logger  *zap.Logger
	stdout  io.Writer
	stderr  io.Writer
	cfgFile string
	verbose bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{
		v:      viper.New(),
		logger: zap.NewNop(),
		stdout: stdout,
		stderr: stderr,
	}
	defer func() { _ = a.logger.Sync() }()

	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	var ue *usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintf(stderr, "Run 'snpeff-consistency --help' for usage.\n")
		return ExitUsage
	}
	return ExitError
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "snpeff-consistency",
		Short: "Resolve conflicting SnpEff effect annotations",
		Long: `snpeff-consistency reads a VCF annotated by SnpEff in classic (EFF) mode and
decides a single representative effect per variant under a strict, rule or
specific policy. It writes a per-variant decision table, optional statistics,
and converts filtered tables to BED intervals.`,
		Example: `  snpeff-consistency analyze input.vcf.gz --mode rule -d 1000 --stats
  snpeff-consistency filter annotation_summary.txt --mode rule --effects INTRON,INTERGENIC
  snpeff-consistency to-bed filtered_consistency.txt --extended`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(a.stderr, a.verbose)
			return a.initConfig()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default ~/"+configName+".yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(a.newAnalyzeCmd())
	root.AddCommand(a.newFilterCmd())
	root.AddCommand(a.newToBedCmd())
	root.AddCommand(a.newConfigCmd())
	root.AddCommand(a.newVersionCmd())

	return root
}

// initConfig loads the config file and environment overrides. A missing
// config file is not an error.
func (a *app) initConfig() error {
	v := a.v
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (a.cfgFile == "" && errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	a.logger.Debug("loaded config", zap.String("file", v.ConfigFileUsed()))
	return nil
}

// configPath returns the file config set writes to.
func (a *app) configPath() (string, error) {
	if f := a.v.ConfigFileUsed(); f != "" {
		return f, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

// newLogger builds a console logger on w. Debug messages are enabled by verbose.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "snpeff-consistency version %s (%s) built %s\n", version, commit, date)
		},
	}
}
