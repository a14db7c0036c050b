package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/taskdeck/internal/emoji"
	"github.com/nhle/taskdeck/internal/merge"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/store"
	"github.com/nhle/taskdeck/internal/transfer"
	"github.com/nhle/taskdeck/internal/userstate"
)

func listCmd(opts *options) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print your tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env) error {
				u := e.session.User()
				now := e.session.Now()
				tasks := userstate.Search(userstate.Ordered(u.Tasks, u.Settings), query)
				w := cmd.OutOrStdout()
				if len(tasks) == 0 {
					fmt.Fprintln(w, "No tasks.")
					return nil
				}
				for _, t := range tasks {
					fmt.Fprintln(w, taskLine(t, u, now))
				}
				p := userstate.Summarize(u.Tasks, now)
				fmt.Fprintf(w, "\n%d/%d done. %s\n", p.Done, p.Total, userstate.CompletionText(p.Percent()))

				saved, ok, err := store.LastSaved(cmd.Context(), e.kv, store.UserKey)
				if err != nil {
					log.Printf("cli: reading save time: %v", err)
				} else if ok {
					fmt.Fprintf(w, "Last saved %s.\n", humanize.RelTime(saved, now, "ago", "from now"))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "Only show tasks matching the query")
	return cmd
}

func exportCmd(opts *options) *cobra.Command {
	var (
		dir string
		ids []int64
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write tasks to a JSON file that can be imported elsewhere",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env) error {
				tasks := e.session.User().Tasks
				if len(ids) > 0 {
					tasks = transfer.SelectTasks(tasks, ids)
				}
				if len(tasks) == 0 {
					return errors.New("nothing to export")
				}
				if dir == "" {
					dir = e.cfg.Export.Dir
				}
				path, err := transfer.ExportFile(dir, tasks, e.session.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d task(s) to %s\n", len(tasks), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to write to (default from config)")
	cmd.Flags().Int64SliceVar(&ids, "id", nil, "Only export these task ids")
	return cmd
}

func importCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge tasks from an exported JSON file or a mail message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env) error {
				tasks, err := transfer.ReadFile(args[0])
				if err != nil {
					return err
				}
				if err := e.session.Import(cmd.Context(), tasks); err != nil {
					var verr *merge.ValidationError
					if errors.As(err, &verr) {
						return fmt.Errorf("import rejected, these tasks exceed a field limit:\n  %s",
							strings.Join(verr.TaskNames, "\n  "))
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d task(s)\n", len(tasks))
				return nil
			})
		},
	}
}

func shareCmd(opts *options) *cobra.Command {
	var copyLink bool
	cmd := &cobra.Command{
		Use:   "share <task-id>",
		Short: "Print a link that hands a copy of a task to someone else",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			return withEnv(cmd, opts, func(e *env) error {
				t, err := e.session.Task(id)
				if err != nil {
					return err
				}
				sender := e.session.User().DisplayName(e.cfg.Share.SenderFallback)
				link, err := transfer.ShareLink(e.cfg.Share.BaseURL, t, sender)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), link)
				if copyLink {
					if err := clipboard.WriteAll(link); err != nil {
						return fmt.Errorf("copying to clipboard: %w", err)
					}
					fmt.Fprintln(cmd.ErrOrStderr(), "Copied to the clipboard.")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&copyLink, "copy", "c", false, "Also copy the link to the clipboard")
	return cmd
}

func acceptCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "accept <share-link|file>",
		Short: "Add a task someone shared with you",
		Long: "Accept takes a share link, a text file containing one, or a saved mail\n" +
			"message (.eml) with a link in its body.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shared, err := transfer.LoadShared(args[0])
			if err != nil {
				return err
			}
			return withEnv(cmd, opts, func(e *env) error {
				u := e.session.User()
				fmt.Fprintln(cmd.OutOrStdout(), taskLine(shared.Task, u, e.session.Now()))
				if !yes {
					sender := shared.SharedBy
					if sender == "" {
						sender = transfer.DefaultSender
					}
					ok, err := opts.confirm(sender+" shared a task with you", "Add it to your tasks?", "Add task")
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "Declined.")
						return nil
					}
				}
				t, err := e.session.AcceptShared(cmd.Context(), shared)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q from %s\n", t.Name, t.SharedBy)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept without asking")
	return cmd
}

func logoutCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Delete all tasks, categories and settings stored on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env) error {
				if !yes {
					ok, err := opts.confirm("Log out?", "This deletes all data stored on this machine.", "Log out")
					if err != nil || !ok {
						return err
					}
				}
				if err := e.session.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func configCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), opts.configPath)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", opts.configPath)
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := model.SaveConfig(opts.configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}

// taskLine renders a task as one line of plain text.
func taskLine(t model.Task, u model.User, now time.Time) string {
	var sb strings.Builder
	if t.Done {
		sb.WriteString("[x] ")
	} else {
		sb.WriteString("[ ] ")
	}
	if t.Pinned {
		sb.WriteString("* ")
	}
	if glyph := emoji.Render(u.EmojisStyle, t.Emoji); glyph != "" {
		sb.WriteString(glyph + " ")
	}
	sb.WriteString(t.Name)
	if t.ID != 0 {
		fmt.Fprintf(&sb, "  #%d", t.ID)
	}
	if t.Deadline != nil {
		sb.WriteString("  " + userstate.DeadlineText(t.Deadline.Time, now))
	}
	if len(t.Category) > 0 && u.Settings.EnableCategories {
		names := make([]string, len(t.Category))
		for i, c := range t.Category {
			names[i] = c.Name
		}
		sb.WriteString("  [" + strings.Join(names, ", ") + "]")
	}
	if t.SharedBy != "" {
		sb.WriteString("  from " + t.SharedBy)
	}
	return sb.String()
}
