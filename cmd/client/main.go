package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/iudanet/tasklist/internal/client/api"
	"github.com/iudanet/tasklist/internal/client/cli"
	"github.com/iudanet/tasklist/internal/client/iocli"
	"github.com/iudanet/tasklist/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", getEnv("TASKLIST_SERVER", "http://localhost:8080"), "Server URL")
	dbPath := flag.String("db", "tasklist-client.db", "Path to local database")
	password := flag.String("password", "", "Password (not recommended, use env var or file)")
	passwordFile := flag.String("password-file", "", "Path to file containing password")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	stdio := iocli.NewStdio()

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(stdio)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, stdio, *serverURL, *dbPath, cli.Passwords{FromFile: *passwordFile, FromArgs: *password}, args))
}

func run(ctx context.Context, stdio iocli.IO, serverURL, dbPath string, passwords cli.Passwords, args []string) int {
	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			slog.Error("failed to close database", slog.Any("error", err))
		}
	}()

	app := cli.New(stdio, api.NewClient(serverURL), boltStorage, passwords)

	if err := app.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUnknownCommand) {
			cli.PrintUsage(stdio)
		}
		return 1
	}

	return 0
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func printVersion() {
	fmt.Printf("Tasklist Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
