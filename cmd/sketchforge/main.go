package main

import (
	"github.com/alecthomas/kong"

	"sketchforge/cmd/sketchforge/commands"
	"sketchforge/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("sketchforge"),
		kong.Description("Compile community and local Arduboy sketches into flashable binaries."),
		kong.Vars{"version": version.Version},
		kong.UsageOnError(),
	)

	err := ctx.Run(&commands.Global{}, &cli)
	ctx.FatalIfErrorf(err)
}
