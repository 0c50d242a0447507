package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dharmasatrya/flightoffers/internal/app"
	"github.com/dharmasatrya/flightoffers/internal/config"
	"github.com/dharmasatrya/flightoffers/internal/filter"
	"github.com/dharmasatrya/flightoffers/internal/models"
	"github.com/dharmasatrya/flightoffers/internal/session"
)

func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search flights and show the filtered results with a price trend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "origin", Usage: "Origin IATA code"},
			&cli.StringFlag{Name: "destination", Usage: "Destination IATA code"},
			&cli.StringFlag{Name: "date", Usage: "Departure date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "return-date", Usage: "Return date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "adults", Usage: "Number of adults", Value: "1"},
			&cli.StringFlag{Name: "children", Usage: "Number of children"},
			&cli.StringFlag{Name: "infants", Usage: "Number of infants"},
			&cli.StringFlag{Name: "class", Usage: "ECONOMY, PREMIUM_ECONOMY, BUSINESS or FIRST"},
			&cli.FloatFlag{Name: "max-price", Usage: "Maximum price (defaults to the highest price found)"},
			&cli.StringSliceFlag{Name: "stops", Usage: "Stop buckets to keep: 0, 1, 2+. Can be used multiple times"},
			&cli.StringSliceFlag{Name: "airline", Usage: "Airline codes to keep. Can be used multiple times"},
			&cli.StringFlag{Name: "sort", Usage: "price, duration, departure, stops or best_value"},
			&cli.StringFlag{Name: "order", Usage: "asc or desc", Value: "asc"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			req := models.SearchRequest{
				Origin:      c.String("origin"),
				Destination: c.String("destination"),
				Date:        c.String("date"),
				ReturnDate:  c.String("return-date"),
				Adults:      c.String("adults"),
				Children:    c.String("children"),
				Infants:     c.String("infants"),
				TravelClass: c.String("class"),
			}

			var maxPrice *float64
			if c.IsSet("max-price") {
				v := c.Float("max-price")
				maxPrice = &v
			}

			return searchFlights(ctx, c.String("config"), req, searchOptions{
				maxPrice: maxPrice,
				stops:    c.StringSlice("stops"),
				airlines: c.StringSlice("airline"),
				sortBy:   c.String("sort"),
				order:    c.String("order"),
			})
		},
	}
}

type searchOptions struct {
	maxPrice *float64
	stops    []string
	airlines []string
	sortBy   string
	order    string
}

func searchFlights(ctx context.Context, configPath string, req models.SearchRequest, opts searchOptions) error {
	if !filter.IsSortKey(opts.sortBy) {
		return fmt.Errorf("unknown sort key %q", opts.sortBy)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := app.NewLogger(cfg, os.Stderr)
	gw, err := app.NewGateway(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating search gateway: %w", err)
	}
	defer gw.Close(ctx)

	s := session.New("flightctl")
	s.Search(ctx, gw, req)

	filters := s.Filters()
	if opts.maxPrice != nil {
		filters.MaxPrice = *opts.maxPrice
	}
	filters.Stops = opts.stops
	filters.Airlines = opts.airlines
	if err := s.SetFilters(filters); err != nil {
		return fmt.Errorf("applying filters: %w", err)
	}

	fmt.Print(renderView(s.View(opts.sortBy, opts.order)))
	return nil
}
