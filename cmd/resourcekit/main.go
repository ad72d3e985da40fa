package main

import (
	"errors"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tordrt/resourcekit/internal/config"
	"github.com/tordrt/resourcekit/internal/logging"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/ui"
)

var (
	// Version information, set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app carries the state shared by every command
type app struct {
	configFile string
	verbose    bool
	noColor    bool

	cfg     *config.Config
	logger  *zap.Logger
	console *ui.Console

	out    io.Writer
	errOut io.Writer
}

func newRootCommand(out, errOut io.Writer) (*cobra.Command, *app) {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "resourcekit",
		Short: "Manage resource files and generate code from them",
		Long: `resourcekit keeps one resource file per model (fields, relations and
indexes) and generates SQL migrations, language files and HTML forms from them.

Resource files can be written by hand, edited with the compact grammar
(name:title;data-type:string#name:body) or built from an existing database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (default: ./resourcekit.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newResourceCommand(a))
	rootCmd.AddCommand(newGenerateCommand(a))
	rootCmd.AddCommand(newStubsCommand(a))
	rootCmd.AddCommand(newVersionCommand(a))

	return rootCmd, a
}

func (a *app) setup() error {
	a.console = ui.NewConsole(a.out, a.errOut, a.noColor)
	a.logger = logging.New(a.verbose)

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("loaded config",
		zap.String("resources", cfg.Paths.Resources),
		zap.Strings("locales", cfg.Locales))
	return nil
}

// store returns the resource store of the configured resources directory
func (a *app) store() *resource.Store {
	return resource.NewStore(a.cfg.Paths.Resources, a.logger)
}

// locales returns the configured locales followed by any extra ones
func (a *app) locales(extra ...string) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range append(append([]string{}, a.cfg.Locales...), extra...) {
		if l = strings.TrimSpace(l); l != "" && !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// report prints a command error
func (a *app) report(err error) {
	if a.console == nil {
		a.console = ui.NewConsole(a.out, a.errOut, a.noColor)
	}

	var notFound *notFoundError
	if errors.As(err, &notFound) {
		a.console.Block(ui.ResourceNotFoundError(notFound.model, notFound.suggestions, a.noColor))
		return
	}
	a.console.Error("%v", err)
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			a.console.Info("resourcekit %s (commit %s, built %s, %s)", Version, GitCommit, BuildDate, runtime.Version())
		},
	}
}

func run(args []string, out, errOut io.Writer) int {
	rootCmd, a := newRootCommand(out, errOut)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
