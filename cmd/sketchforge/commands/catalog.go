package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"sketchforge/internal/catalog"
	"sketchforge/internal/config"
)

// CatalogCmd implements the 'catalog' command.
type CatalogCmd struct {
	Search string `arg:"" optional:"" help:"Filter sketches by title or description"`
}

func (c *CatalogCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	items, err := catalog.NewClient(cfg.Catalog.URL).Fetch(context.Background())
	if err != nil {
		return err
	}
	items = catalog.Filter(items, c.Search)
	if len(items) == 0 {
		fmt.Println("No sketches match.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintln(w, "TITLE\tSOURCE\tDESCRIPTION")
	for _, item := range items {
		source := "-"
		if _, err := item.Source(); err == nil {
			source = "yes"
		}
		desc := catalog.PlainDescription(item.Description)
		if len(desc) > 72 {
			desc = desc[:69] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", item.Title, source, desc)
	}
	return nil
}
