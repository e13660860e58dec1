package main

import (
	"errors"
	"flag"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/mesh-intelligence/stackmap/internal/paths"
	"github.com/mesh-intelligence/stackmap/pkg/stackmap"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds global flag values and the loaded configuration for one
// command tree.
type app struct {
	configDir string
	dataDir   string
	json      bool
	verbosity int

	cfg *viper.Viper
}

// klogFlags carries klog's settings; -v is forwarded into it.
var klogFlags = func() *flag.FlagSet {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	return fs
}()

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:     "stackmap",
		Short:   "Replay type-indexed container scripts",
		Long:    "stackmap replays YAML scripts against a type-indexed container,\nprints what every operation did, and journals each run.",
		Version: stackmap.Version,

		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return userErr(err)
	})

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/.stackmap-db)")
	root.PersistentFlags().BoolVar(&a.json, "json", false, "output as JSON")
	root.PersistentFlags().IntVarP(&a.verbosity, "verbosity", "v", 0, "log verbosity")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newKindsCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newShowCmd(a))

	return root
}

// setup loads config.yaml and applies the log verbosity. The version command
// needs neither.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	verbosity := cfg.GetInt(cfgKeyVerbosity)
	if cmd.Flags().Changed("verbosity") {
		verbosity = a.verbosity
	}
	if err := klogFlags.Set("v", strconv.Itoa(verbosity)); err != nil {
		return err
	}
	klog.V(2).InfoS("loaded config", "dir", configDir, "file", cfg.ConfigFileUsed())
	return nil
}

// resolveDataDir applies --data-dir > config data_dir > STACKMAP_DATA_DIR >
// $(CWD)/.stackmap-db.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir))
}

// userError marks failures caused by the invocation rather than the system.
// Unmarked errors exit with exitSysError.
type userError struct {
	err error
}

func (e *userError) Error() string { return e.err.Error() }
func (e *userError) Unwrap() error { return e.err }

func userErr(err error) error {
	return &userError{err: err}
}

// exactArgs is cobra.ExactArgs with its error marked as a user error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return userErr(err)
		}
		return nil
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ue *userError
	if errors.As(err, &ue) {
		return exitUserError
	}
	return exitSysError
}
