package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"sentry_telegram/migrations"
)

type command struct {
	name string
	help string
	// withVersion commands take a target version argument.
	withVersion bool
	run         func(ctx context.Context, db *sql.DB, version int64) error
}

var commands = []command{
	{name: "up", help: "Migrate to the latest version", run: func(ctx context.Context, db *sql.DB, _ int64) error {
		return goose.UpContext(ctx, db, ".")
	}},
	{name: "up-one", help: "Migrate one version up", run: func(ctx context.Context, db *sql.DB, _ int64) error {
		return goose.UpByOneContext(ctx, db, ".")
	}},
	{name: "up-to", help: "Migrate up to VERSION", withVersion: true, run: func(ctx context.Context, db *sql.DB, v int64) error {
		return goose.UpToContext(ctx, db, ".", v)
	}},
	{name: "down", help: "Roll back one version", run: func(ctx context.Context, db *sql.DB, _ int64) error {
		return goose.DownContext(ctx, db, ".")
	}},
	{name: "down-to", help: "Roll back to VERSION", withVersion: true, run: func(ctx context.Context, db *sql.DB, v int64) error {
		return goose.DownToContext(ctx, db, ".", v)
	}},
	{name: "status", help: "Show migration status", run: func(ctx context.Context, db *sql.DB, _ int64) error {
		return goose.StatusContext(ctx, db, ".")
	}},
	{name: "version", help: "Show current version", run: func(ctx context.Context, db *sql.DB, _ int64) error {
		return goose.VersionContext(ctx, db, ".")
	}},
	{name: "reset", help: "Roll back all migrations", run: func(ctx context.Context, db *sql.DB, _ int64) error {
		return goose.ResetContext(ctx, db, ".")
	}},
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "Usage: migrate [-db path] <command> [VERSION]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-10s  %s\n", c.name, c.help)
	}
	fmt.Fprintln(out)
	flag.PrintDefaults()
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func main() {
	def := os.Getenv("DATABASE_PATH")
	if def == "" {
		def = "./data/forwarder.db"
	}
	dbPath := flag.String("db", def, "path to sqlite database")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cmd, ok := lookup(args[0])
	if !ok {
		log.Fatalf("unknown command: %s", args[0])
	}

	var version int64
	if cmd.withVersion {
		if len(args) < 2 {
			log.Fatalf("%s: VERSION is required", cmd.name)
		}
		v, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			log.Fatalf("%s: invalid version %q: %v", cmd.name, args[1], err)
		}
		version = v
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Setup(); err != nil {
		log.Fatalf("setup migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.run(ctx, db, version); err != nil {
		stop()
		log.Fatalf("%s: %v", cmd.name, err)
	}
}
