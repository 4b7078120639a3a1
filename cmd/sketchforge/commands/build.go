package commands

import (
	"context"
	"fmt"

	"sketchforge/internal/config"
	"sketchforge/internal/job"
	"sketchforge/internal/sketch"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Title  string `arg:"" optional:"" help:"Catalog sketch title to build"`
	URL    string `help:"Git repository URL to build"`
	File   string `help:"Local sketch entry file (.ino) to build" type:"existingfile"`
	Output string `short:"o" help:"Export destination (file or directory)" default:"."`

	HardwareFlags `embed:""`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	src, title, err := b.resolveSource(ctx, cfg)
	if err != nil {
		return err
	}

	store := openHistory(cfg)
	defer func() { _ = store.Close() }()

	orch := newOrchestrator(cfg, b.Output)
	results, err := orch.Submit(ctx, job.Request{
		Title:  title,
		Source: src,
		Config: b.buildConfiguration(cfg),
	})
	if err != nil {
		return err
	}

	res := <-results
	recordResult(ctx, store, res, src)
	return reportResult(res)
}

// resolveSource picks the sketch source from the mutually exclusive inputs.
func (b *BuildCmd) resolveSource(ctx context.Context, cfg *config.Config) (sketch.Source, string, error) {
	given := 0
	for _, set := range []bool{b.Title != "", b.URL != "", b.File != ""} {
		if set {
			given++
		}
	}
	if given != 1 {
		return nil, "", fmt.Errorf("exactly one of a catalog title, --url or --file is required")
	}

	switch {
	case b.URL != "":
		return sketch.RemoteGit{URL: b.URL}, b.URL, nil
	case b.File != "":
		return sketch.LocalFile{Path: b.File}, b.File, nil
	default:
		item, err := findCatalogItem(ctx, cfg, b.Title)
		if err != nil {
			return nil, "", err
		}
		src, err := item.Source()
		if err != nil {
			return nil, "", err
		}
		return src, item.Title, nil
	}
}
