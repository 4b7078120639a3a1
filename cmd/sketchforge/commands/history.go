package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"sketchforge/internal/config"
	"sketchforge/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of records to show" default:"20"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("build history is not configured (set history.path in %s)", root.Config)
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No builds recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintln(w, "WHEN\tTITLE\tSTATE\tSOURCE")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.StartedAt.Format("2006-01-02 15:04"), rec.Title, rec.State, rec.Source)
	}
	return nil
}
