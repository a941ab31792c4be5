/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command gridstore is a small operational CLI over a gridstore base:
// list records, truncate a table, or copy one table into another.
// Connection settings come from the environment (see gridstore.FromEnv).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/suparena/gridstore"
	"github.com/suparena/gridstore/recordstore"
	"github.com/suparena/gridstore/recordstore/rest"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	tableFlag   = flag.String("table", "", "Table name (overrides "+gridstore.EnvTable+")")
	filterFlag  = flag.String("filter", "", "Filter formula for list and copy")
	maxFlag     = flag.Int("max", 0, "Maximum records to list (0 = all)")
	verboseFlag = flag.Bool("debug", false, "Enable debug logging")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <list|truncate|copy DEST>\n\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag || *vFlag {
		info := gridstore.GetVersionInfo()
		fmt.Printf("gridstore version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if !*verboseFlag {
		log = log.Level(zerolog.InfoLevel)
	}

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	defaults := gridstore.FromEnv()
	if *tableFlag != "" {
		defaults.Table = *tableFlag
	}
	client, err := gridstore.New(defaults, rest.NewConnector())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create client")
	}
	client.WithLogger(log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch cmd := flag.Arg(0); cmd {
	case "list":
		runList(ctx, log, client)
	case "truncate":
		runTruncate(ctx, log, client)
	case "copy":
		if flag.NArg() < 2 {
			log.Fatal().Msg("copy requires a destination table")
		}
		runCopy(ctx, log, client, flag.Arg(1))
	default:
		log.Error().Str("command", cmd).Msg("unknown command")
		usage()
		os.Exit(2)
	}
}

func runList(ctx context.Context, log zerolog.Logger, client *gridstore.Client) {
	records, err := client.List(ctx, &recordstore.QueryParams{
		FilterByFormula: *filterFlag,
		MaxRecords:      *maxFlag,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("list failed")
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			log.Fatal().Err(err).Msg("encode failed")
		}
	}
	log.Info().Int("records", len(records)).Msg("listed")
}

func runTruncate(ctx context.Context, log zerolog.Logger, client *gridstore.Client) {
	ids, err := client.Truncate(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("truncate failed")
	}
	log.Info().Int("deleted", len(ids)).Msg("truncated")
}

func runCopy(ctx context.Context, log zerolog.Logger, client *gridstore.Client, dest string) {
	copied, err := client.AppendTable(ctx,
		gridstore.TableSpec{Filter: *filterFlag},
		gridstore.TableSpec{Table: dest},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("copy failed")
	}
	log.Info().Str("dest", dest).Int("records", len(copied)).Msg("copied")
}
