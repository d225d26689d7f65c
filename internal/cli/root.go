// Package cli implements the folio command-line interface: the
// administrative surface over a portfolio bucket.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/folio/internal/collection"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values shared by every subcommand.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	output    string
}

// app is the state of one CLI invocation.
type app struct {
	flags rootFlags
	cfg   types.Config
}

// NewRootCmd creates the "folio" command with its global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "folio",
		Short: "Administer portfolio content in a headless bucket",
		Long: "folio manages the projects, skills, services, testimonials, profile and\n" +
			"contact info of a portfolio site stored in a Cosmic bucket or a local\n" +
			"SQLite bucket.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog reads its flags from the Go flag set; mark it parsed.
			if !flag.Parsed() {
				_ = flag.CommandLine.Parse(nil)
			}
			if cmd.Name() == "version" {
				return nil
			}
			if err := validOutput(a.flags.output); err != nil {
				return userError(err)
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return sysError(err)
			}
			a.cfg = cfg
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "local bucket directory (default: $(CWD)/.folio-db)")
	pf.StringVar(&a.flags.backend, "backend", "", "object store backend: sqlite or cosmic")
	pf.StringVarP(&a.flags.output, "output", "o", outputText, "output format: text, json or yaml")
	pf.AddGoFlagSet(flag.CommandLine)

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newStatsCmd(a),
		newOverviewCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newSkillsCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newFeatureCmd(a),
		newDeleteCmd(a),
		newProfileCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "folio:", describe(err))
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// Execute runs the CLI on os.Args and exits.
func Execute() {
	// Log to stderr unless -logtostderr=false is given.
	_ = flag.Set("logtostderr", "true")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// storeFailure classifies an error from the synchronizer or the store:
// NotFound is the user's mistake, anything else is a system failure.
func storeFailure(err error) error {
	if types.IsNotFound(err) {
		return userError(err)
	}
	return sysError(err)
}

// describe renders err for the terminal. Operation errors keep their
// fixed message and add the cause after it.
func describe(err error) string {
	var op *collection.OpError
	if errors.As(err, &op) && op.Err != nil {
		return fmt.Sprintf("%s: %v", op.Error(), op.Err)
	}
	return err.Error()
}
