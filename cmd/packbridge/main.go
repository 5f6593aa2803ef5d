package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dcrane/packbridge/pkg/config"
	"github.com/dcrane/packbridge/pkg/version"
)

var CLI struct {
	Version bool     `help:"Print version information and exit." short:"v"`
	Debug   bool     `help:"Whether to enable debug logging."`
	Configs []string `help:"Configuration files." name:"config" short:"c" type:"file"`

	Convert struct {
		Input    string `arg:"" help:"Source package archive." type:"existingfile"`
		Output   string `arg:"" help:"Destination package archive."`
		Platform string `help:"Target platform." default:"java" enum:"java,bedrock"`
		All      bool   `help:"Export every enabled version from the configuration."`
	} `cmd:"" help:"Convert a package between platforms."`

	Inspect struct {
		Input string `arg:"" help:"Package archive to inspect." type:"existingfile"`
	} `cmd:"" help:"Import a package and print its settings snapshot."`

	Merge struct {
		Inputs     []string `arg:"" help:"Source package archives." type:"existingfile"`
		Output     string   `help:"Destination package archive." short:"o" required:""`
		Platform   string   `help:"Target platform." default:"java" enum:"java,bedrock"`
		Resolution string   `help:"How to resolve texture conflicts." default:"overwrite" enum:"overwrite,skip,rename"`
	} `cmd:"" help:"Merge several packages into one."`

	Config struct {
	} `cmd:"" help:"Write the default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("packbridge"),
		kong.Description("a bidirectional game-asset package transcoder"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	if CLI.Version {
		fmt.Printf(
			"packbridge %s (commit %s)\n",
			version.Version,
			version.GitCommit,
		)
		fmt.Printf(
			"built %s\n",
			version.BuildTime,
		)
		os.Exit(0)
	}

	var err error
	switch ctx.Command() {
	case "convert <input> <output>":
		err = convertCommand()
	case "inspect <input>":
		err = inspectCommand()
	case "merge <inputs>":
		err = mergeCommand()
	case "config":
		os.Stdout.Write(config.DEFAULT)
	}

	if err != nil {
		writeError(err)
	}
}
