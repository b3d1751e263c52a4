package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/wirebind/wirebind/cmd/wirebind/internal/check"
	"github.com/wirebind/wirebind/cmd/wirebind/internal/describe"
)

type CLI struct {
	Verbose bool `help:"Enable debug logging." short:"v"`

	Version  VersionCmd   `cmd:"" help:"Print version information."`
	Check    check.Cmd    `cmd:"" help:"Validate a metadata file and report its endpoints."`
	Describe describe.Cmd `cmd:"" help:"Print the computed wire schemas for a metadata file as JSON."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("wirebind"),
		kong.Description("Wirebind CLI for inspecting endpoint wire schemas."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
