// Command urbanflux runs the dispatch prediction service.
//
// Usage:
//
//	urbanflux serve [--config config.yaml] [--port 8000]
//	urbanflux inspect models/freshness_model.json
//	urbanflux routes import --file segments.yaml
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"urbanflux/config"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "urbanflux",
		Usage:   "Predictions for perishable goods dispatch",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "Path to the YAML config file",
				EnvVars: []string{"URBANFLUX_CONFIG"},
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "HTTP port, overrides config and PORT",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error), overrides config",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			inspectCommand(),
			routesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applies the global flags over the config file.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if c.IsSet("port") {
		cfg.Http.Port = c.Int("port")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
