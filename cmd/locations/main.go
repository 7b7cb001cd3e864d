package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/manzanit0/locations/pkg/env"
	"github.com/manzanit0/locations/pkg/location"
	"github.com/manzanit0/locations/pkg/logger"
	"github.com/manzanit0/locations/pkg/whttp"
)

const ServiceName = "locations-cli"

func main() {
	env.Load()
	logger.InitGlobalSlog(ServiceName, env.Debug())

	limit := flag.Int("limit", location.DefaultLimit, "maximum number of results")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: locations [-limit n] <query...>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := env.LocationIQConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := location.NewLocationIQClient(whttp.NewLoggingClient(), cfg)
	params := location.SearchParams{Query: strings.Join(flag.Args(), " "), Limit: limit}

	if err := run(ctx, client, params, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, client location.Client, params location.SearchParams, w io.Writer) error {
	locations, err := client.Search(ctx, params)
	if err != nil {
		return err
	}

	if len(locations) == 0 {
		fmt.Fprintf(w, "no locations found for %q\n", params.Query)
		return nil
	}

	RenderTable(w, locations)
	return nil
}

func RenderTable(w io.Writer, locations []location.Location) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Place ID", "Name", "Lat", "Lon", "Type"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, l := range locations {
		table.Append([]string{l.PlaceID, l.DisplayName, l.Lat, l.Lon, fmt.Sprintf("%s/%s", l.Class, l.Type)})
	}

	table.Render()
}
