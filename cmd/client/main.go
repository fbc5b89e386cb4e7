package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/client/api"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/client/cli"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/client/iocli"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/client/session"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "fintrack-client.db", "Path to local database")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	stdio := iocli.NewStdio()

	args := flag.Args()
	if len(args) == 0 {
		cli.NewCli(stdio, nil, nil).PrintUsage()
		os.Exit(1)
	}

	store, err := boltdb.New(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	client := api.NewClient(*serverURL)
	manager := session.NewManager(logger, store, client.RefreshTokens)
	client.SetSession(manager)

	app := cli.NewCli(stdio, client, manager)

	if err := app.Run(context.Background(), args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("FinTrack Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
