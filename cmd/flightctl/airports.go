package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dharmasatrya/flightoffers/internal/airports"
)

func AirportsCommand() *cli.Command {
	return &cli.Command{
		Name:      "airports",
		Usage:     "List airports matching a code, city or name",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of airports (0 for no limit)",
				Value: 10,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Print(renderAirports(airports.Search(c.Args().First(), c.Int("limit"))))
			return nil
		},
	}
}
