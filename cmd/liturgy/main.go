// Command liturgy imports, stores and exports bibles and songs.
package main

import (
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperLiturgy/internal/config"
)

const version = "0.1.0"

// stdout receives command output.
var stdout io.Writer = os.Stdout

// Globals are the flags shared by every command.
type Globals struct {
	Store        string        `help:"Document store backend" enum:"sqlite,mongo,memory" default:"sqlite" env:"LITURGY_STORE"`
	DB           string        `name:"db" help:"SQLite database path" default:"liturgy.db" env:"LITURGY_DB" type:"path"`
	MongoURI     string        `name:"mongo-uri" help:"MongoDB connection string" default:"mongodb://localhost:27017" env:"LITURGY_MONGO_URI"`
	MongoDB      string        `name:"mongo-db" help:"MongoDB database name" default:"liturgy" env:"LITURGY_MONGO_DB"`
	MongoTimeout time.Duration `name:"mongo-timeout" help:"MongoDB operation timeout" default:"10s"`
	LogLevel     string        `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" env:"LITURGY_LOG_LEVEL"`
	LogFormat    string        `name:"log-format" help:"Log format (json, text)" default:"text" env:"LITURGY_LOG_FORMAT"`
}

// Config maps the flags onto a config.Config.
func (g *Globals) Config() config.Config {
	return config.Config{
		Backend:       g.Store,
		DBPath:        g.DB,
		MongoURI:      g.MongoURI,
		MongoDatabase: g.MongoDB,
		MongoTimeout:  g.MongoTimeout,
		LogLevel:      g.LogLevel,
		LogFormat:     g.LogFormat,
	}
}

// CLI defines the command-line interface for liturgy.
type CLI struct {
	Globals

	Detect  DetectCmd  `cmd:"" help:"Detect the format of a file"`
	Import  ImportCmd  `cmd:"" help:"Import bibles and songs into the store"`
	Export  ExportCmd  `cmd:"" help:"Export a stored document"`
	Verse   VerseCmd   `cmd:"" help:"Look up a verse in a stored bible"`
	Inspect InspectCmd `cmd:"" help:"Query an XML file with XPath"`
	List    ListCmd    `cmd:"" help:"List stored documents"`
	Formats FormatsCmd `cmd:"" help:"List supported formats"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("liturgy"),
		kong.Description("Juniper Liturgy - bible and song format conversion"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := run(ctx, &cli)
	ctx.FatalIfErrorf(err)
}

// run validates the configuration, sets up logging and runs the selected
// command with the configuration bound.
func run(ctx *kong.Context, cli *CLI) error {
	cfg := cli.Config()
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.InitLogging()
	return ctx.Run(cfg)
}
