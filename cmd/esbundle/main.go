package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/esbundle/cmd/esbundle/commands"
	"git.home.luguber.info/inful/esbundle/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("esbundle"),
		kong.Description("Bundle JavaScript entry modules into deployable output."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
