package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/eringen/wealthwise"
	"github.com/eringen/wealthwise/store"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "schema":
		dialect := "sqlite"
		if len(os.Args) > 2 {
			dialect = os.Args[2]
		}
		ddl, err := store.Schema(store.Dialect(dialect))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(ddl)
	case "version":
		fmt.Printf("wealthwise %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	envFile := wealthwise.EnvOr("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load environment from %s: %w", envFile, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := wealthwise.New(wealthwise.ConfigFromEnv(), wealthwise.ViewFuncs{},
		wealthwise.WithStaticDir(wealthwise.EnvOr("STATIC_DIR", "public")))
	return app.Run(ctx)
}

func printUsage() {
	fmt.Println(`wealthwise - WealthWise site backend built with Go, Echo, and templ

Usage:
  wealthwise <command> [arguments]

Commands:
  serve                     Start the HTTP server (reads .env when present)
  schema [sqlite|postgres]  Print the content store schema
  version                   Print the wealthwise version
  help                      Show this help message

Examples:
  STORE_URL=sqlite:data/site.db wealthwise serve
  wealthwise schema postgres | psql "$DATABASE_URL"`)
}
