package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"

	"urbanflux/config"
	"urbanflux/db"
)

func routesCommand() *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "Manage the stored delivery route",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Replace the stored route with the segments in a YAML file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "YAML list of segments",
						Required: true,
					},
				},
				Action: runRoutesImport,
			},
		},
	}
}

func runRoutesImport(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Route.Database == "" {
		return errors.New("route.database is not configured")
	}

	segments, err := readSegments(c.String("file"))
	if err != nil {
		return err
	}

	store, err := db.OpenRouteStore(cfg.Route.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ReplaceSegments(context.Background(), staticSegments(segments)); err != nil {
		return fmt.Errorf("import segments: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "imported %d segments into %s\n", len(segments), cfg.Route.Database)
	return nil
}

func readSegments(path string) ([]config.Segment, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var segments []config.Segment
	if err := yaml.Unmarshal(payload, &segments); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%s lists no segments", path)
	}
	for i, s := range segments {
		if s.ID == "" {
			return nil, fmt.Errorf("segment %d: id is required", i)
		}
		if s.SpeedKmh <= 0 {
			return nil, fmt.Errorf("segment %s: speed_kmh must be positive", s.ID)
		}
	}
	return segments, nil
}
