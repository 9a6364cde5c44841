package main

import (
	"context"
	"fmt"

	"github.com/casualjim/agentgraph/config"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of topology documents",
		Action: func(_ context.Context, c *cli.Command) error {
			data, err := json.MarshalIndent(config.Schema(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.Root().Writer, string(data))
			return err
		},
	}
}
