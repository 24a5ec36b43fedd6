package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/akyairhashvil/taskwatch/internal/config"
	"github.com/akyairhashvil/taskwatch/internal/history"
	"github.com/akyairhashvil/taskwatch/internal/models"
	"github.com/akyairhashvil/taskwatch/internal/report"
	"github.com/akyairhashvil/taskwatch/internal/tasks"
	"github.com/akyairhashvil/taskwatch/internal/util"
)

// checkType rejects task types outside the configured set.
func (a *App) checkType(taskType string) error {
	if !slices.Contains(a.settings.Types, taskType) {
		return NewCLIError(UserError, fmt.Sprintf("unknown task type %q", taskType),
			fmt.Sprintf("Configured types: %v (change with --types)", a.settings.Types), nil)
	}
	return nil
}

func parseDoneness(args []string) (models.Doneness, error) {
	if len(args) < 2 {
		return models.Undone, nil
	}
	d := models.Doneness(args[1])
	if !d.Valid() {
		return "", NewCLIError(UserError, fmt.Sprintf("invalid list %q", args[1]), "Use 'undone' or 'done'", nil)
	}
	return d, nil
}

func (a *App) listCmd() *cobra.Command {
	var (
		filter string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list TYPE [undone|done]",
		Short: "Print one task list, sorted by id",
		Example: `  taskwatch list copy
  taskwatch list copy done --filter "state:errored backup"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkType(args[0]); err != nil {
				return err
			}
			done, err := parseDoneness(args)
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			l := tasks.NewList(svc, args[0], done, a.listOptions(nil)...)
			if err := l.Refresh(cmd.Context()); err != nil {
				return err
			}
			ts := tasks.Filter(l.Tasks(), util.ParseSearchQuery(filter))
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if ts == nil {
					ts = []models.Task{}
				}
				return enc.Encode(ts)
			}
			printTasks(cmd.OutOrStdout(), ts)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", `filter rows, e.g. "state:failed backup"`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *App) watchCmd() *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "watch TYPE",
		Short: "Print the undone list of a type every poll interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkType(args[0]); err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			opts := append(a.listOptions(nil),
				tasks.WithReporter(tasks.ReporterFunc(func(op string, err error) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", op, err)
				})),
				tasks.WithOnChange(func(ts []models.Task) {
					fmt.Fprintf(out, "[%s] %s: %d running\n", a.now().Format("15:04:05"), args[0], len(ts))
					printTasks(out, ts)
				}),
			)
			l := tasks.NewList(svc, args[0], models.Undone, opts...)

			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			w := l.Watch(ctx)
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}
	cmd.Flags().DurationVar(&duration, "for", 0, "stop after this long (default: until interrupted)")
	return cmd
}

// bulkCommand builds the clear-complete and retry-failed commands, which
// share loading, recording and reporting.
func (a *App) bulkCommand(use, short string, run func(*tasks.List, context.Context) (tasks.BulkResult, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " TYPE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := a.doneList(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer closeFn()
			res, err := run(l, cmd.Context())
			printBulk(cmd.OutOrStdout(), res)
			return err
		},
	}
}

// doneList loads the done list of a type with history recording attached.
func (a *App) doneList(ctx context.Context, taskType string) (*tasks.List, func(), error) {
	if err := a.checkType(taskType); err != nil {
		return nil, nil, err
	}
	svc, err := a.service()
	if err != nil {
		return nil, nil, err
	}
	store := a.openHistory(ctx)
	closeFn := func() {
		if store != nil {
			util.LogError(a.logger, "close history", store.Close())
		}
	}
	l := tasks.NewList(svc, taskType, models.Done, a.listOptions(store)...)
	if err := l.Refresh(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return l, closeFn, nil
}

func (a *App) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear TYPE",
		Short: "Remove every finished task of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkType(args[0]); err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			l := tasks.NewList(svc, args[0], models.Done, a.listOptions(nil)...)
			if err := l.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared finished %s tasks, %d left\n", args[0], len(l.Tasks()))
			return nil
		},
	}
}

func (a *App) clearCompleteCmd() *cobra.Command {
	return a.bulkCommand("clear-complete", "Delete every succeeded task of a type",
		func(l *tasks.List, ctx context.Context) (tasks.BulkResult, error) {
			return l.ClearComplete(ctx)
		})
}

func (a *App) retryFailedCmd() *cobra.Command {
	return a.bulkCommand("retry-failed", "Resubmit a copy for every finished task that did not succeed",
		func(l *tasks.List, ctx context.Context) (tasks.BulkResult, error) {
			return l.RetryAllFailed(ctx)
		})
}

func (a *App) historyCmd() *cobra.Command {
	var (
		limit int
		runID string
		keep  int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded bulk actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := history.Open(ctx, a.settings.HistoryPath)
			if err != nil {
				return NewCLIError(BackendError, "cannot open history", "", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if keep > 0 {
				n, err := store.Prune(ctx, keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "pruned %d runs\n", n)
				return nil
			}
			if runID != "" {
				items, err := store.Outcomes(ctx, runID)
				if err != nil {
					return err
				}
				printOutcomes(out, items)
				return nil
			}
			runs, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}
			printRuns(out, runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "show the items of one run")
	cmd.Flags().IntVar(&keep, "prune", 0, "delete all but the newest N runs")
	return cmd
}

func (a *App) reportCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export every configured type's lists to PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.settings.ReportDir
			}
			ctx := cmd.Context()
			sections := make([]report.Section, 0, len(a.settings.Types))
			for _, typ := range a.settings.Types {
				sec := report.Section{Type: typ}
				for _, done := range models.Donenesses {
					l := tasks.NewList(svc, typ, done, a.listOptions(nil)...)
					if err := l.Refresh(ctx); err != nil {
						return err
					}
					if done == models.Done {
						sec.Done = l.Tasks()
					} else {
						sec.Undone = l.Tasks()
					}
				}
				sections = append(sections, sec)
			}
			now := a.now()
			path, err := report.Save(outDir, now, fmt.Sprintf("%s report %s", config.AppName, now.Format("2006-01-02 15:04")), sections)
			if err != nil {
				return NewCLIError(UserError, "cannot write report", "", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	return cmd
}
