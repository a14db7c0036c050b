// Package cli implements the taskdeck command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/store"
	"github.com/nhle/taskdeck/internal/userstate"
)

// options are the flags shared by every command.
type options struct {
	configPath string

	// confirm asks a yes/no question. Tests replace it.
	confirm func(title, description, affirmative string) (bool, error)
}

// env is what a command runs against.
type env struct {
	cfg     *model.AppConfig
	kv      store.KV
	session *userstate.Session
}

func (e *env) Close() error {
	return e.kv.Close()
}

// NewRootCmd builds the taskdeck command tree. Without a subcommand the
// terminal UI starts.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, &options{confirm: askConfirm})
}

func newRootCmd(version string, opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskdeck [share-link|file]",
		Short: "Taskdeck - a local task list you can share from",
		Long: "Taskdeck keeps your tasks on this machine. Run it without arguments to open\n" +
			"the terminal UI, or pass a share link to preview a task someone sent you.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, args)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "Path to the config file")

	root.AddCommand(listCmd(opts))
	root.AddCommand(exportCmd(opts))
	root.AddCommand(importCmd(opts))
	root.AddCommand(shareCmd(opts))
	root.AddCommand(acceptCmd(opts))
	root.AddCommand(logoutCmd(opts))
	root.AddCommand(configCmd(opts))

	return root
}

func loadConfig(opts *options) (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openEnv loads the config and opens the user session.
func openEnv(ctx context.Context, opts *options) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	kv, err := store.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	s, err := userstate.Open(ctx, kv, userstate.Options{})
	if err != nil {
		kv.Close()
		return nil, err
	}
	return &env{cfg: cfg, kv: kv, session: s}, nil
}

// withEnv runs fn against an opened environment. Log output goes to the
// command's error stream.
func withEnv(cmd *cobra.Command, opts *options, fn func(e *env) error) error {
	log.SetOutput(cmd.ErrOrStderr())
	e, err := openEnv(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func discardLogs() {
	log.SetOutput(io.Discard)
}
