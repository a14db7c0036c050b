package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/taskdeck/internal/app"
	"github.com/nhle/taskdeck/internal/backup"
	"github.com/nhle/taskdeck/internal/speech"
	"github.com/nhle/taskdeck/internal/transfer"
)

// runTUI starts the terminal UI. A crash inside the UI leads to the
// recovery prompts instead of losing the session.
func runTUI(cmd *cobra.Command, opts *options, args []string) (err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "taskdeck")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	} else {
		discardLogs()
	}

	var initial *transfer.Shared
	if len(args) == 1 {
		shared, err := transfer.LoadShared(args[0])
		if err != nil {
			return err
		}
		initial = &shared
	}

	e, err := openEnv(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer e.Close()

	deps := app.Deps{
		Session: e.session,
		Config:  *e.cfg,
		Voices:  speech.NewVoiceWatcher(),
		Initial: initial,
	}
	if cfg.Speech.Enabled {
		if es := speech.NewEspeak(cfg.Speech.Command); es.Available() {
			deps.Synth = es
		} else {
			log.Printf("cli: %s not found, read aloud disabled", cfg.Speech.Command)
		}
	}
	if cfg.Backup.Schedule != "" {
		sched, err := backup.NewScheduler(cfg.Backup.Schedule, time.Local)
		if err != nil {
			return err
		}
		deps.Backup = sched
		defer sched.Stop()
	}

	defer func() {
		if r := recover(); r != nil {
			err = recoverSession(cmd.ErrOrStderr(), opts, e, r)
		}
	}()

	p := tea.NewProgram(app.New(deps), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramPanic) {
			return recoverSession(cmd.ErrOrStderr(), opts, e, err)
		}
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}

// recoverSession reports a crash and offers to save the tasks and then to
// clear the stored state. It never retries the UI.
func recoverSession(w io.Writer, opts *options, e *env, cause any) error {
	fmt.Fprintf(w, "\nTaskdeck stopped because of an error:\n  %v\n\n", cause)
	log.Printf("cli: crash: %v", cause)

	tasks := e.session.User().Tasks
	if len(tasks) > 0 {
		ok, err := opts.confirm(
			fmt.Sprintf("Export your %d task(s) to a file?", len(tasks)),
			"The file can be imported again later.",
			"Export")
		if err != nil {
			return err
		}
		if ok {
			path, err := transfer.ExportFile(e.cfg.Export.Dir, tasks, e.session.Now())
			if err != nil {
				fmt.Fprintf(w, "Export failed: %v\n", err)
			} else {
				fmt.Fprintf(w, "Tasks saved to %s\n", path)
			}
		}
	}

	ok, err := opts.confirm(
		"Clear all saved data?",
		"Only do this if taskdeck keeps failing on start.",
		"Clear data")
	if err != nil {
		return err
	}
	if ok {
		if err := e.session.Reset(context.Background()); err != nil {
			return fmt.Errorf("clearing data: %w", err)
		}
		fmt.Fprintln(w, "All data cleared.")
	}
	return fmt.Errorf("taskdeck crashed: %v", cause)
}

// askConfirm asks a yes/no question on the terminal.
func askConfirm(title, description, affirmative string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative(affirmative).
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
