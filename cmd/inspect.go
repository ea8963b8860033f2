package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"urbanflux/ml"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Validate a model artifact and describe it",
		ArgsUsage: "<artifact.json>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected one artifact path, got %d", c.NArg())
			}
			return inspect(c.App.Writer, c.Args().First())
		},
	}
}

func inspect(w io.Writer, path string) error {
	artifact, err := ml.ReadArtifact(path)
	if err != nil {
		return err
	}
	model, err := artifact.Build()
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}

	fmt.Fprintf(w, "name:     %s\n", artifact.Name)
	fmt.Fprintf(w, "kind:     %s\n", model.Kind())
	fmt.Fprintln(w, "features:")
	for _, f := range artifact.Features {
		if f.Type == ml.Categorical {
			fmt.Fprintf(w, "  %s (%s: %s)\n", f.Name, f.Type, strings.Join(f.Categories, ", "))
			continue
		}
		fmt.Fprintf(w, "  %s (%s)\n", f.Name, f.Type)
	}
	if c, ok := model.(ml.Classifier); ok {
		fmt.Fprintf(w, "classes:  %s\n", strings.Join(c.Classes(), ", "))
	}
	if t, ok := model.(interface{ Nodes() int }); ok {
		fmt.Fprintf(w, "nodes:    %d\n", t.Nodes())
	}
	return nil
}
