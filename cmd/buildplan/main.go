package main

import (
	"github.com/alecthomas/kong"
	"github.com/wolfeidau/buildplan/cmd/buildplan/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Generate commands.GenerateCmd `cmd:"" help:"Generate build plans"`
		Esbuild  commands.EsbuildCmd  `cmd:"" help:"Print the esbuild options equivalent to the build plans"`
		Debug    bool                 `help:"Enable debug mode."`
		Version  kong.VersionFlag
	}
)

func main() {
	cmd := kong.Parse(&cli,
		kong.Name("buildplan"),
		kong.Description("Generate declarative front-end build plans."),
		kong.Vars{
			"version": version,
		})
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
