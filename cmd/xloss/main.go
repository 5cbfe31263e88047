package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pthm/xloss"
	"github.com/pthm/xloss/internal/config"
	"github.com/pthm/xloss/internal/demo"
	"github.com/pthm/xloss/internal/logger"
	"github.com/pthm/xloss/internal/server"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "serve":
		if err := runServe(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "render":
		if err := runRender(args, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("xloss version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`xloss - text protection through CSS generated content

Usage:
  xloss <command> [flags]

Commands:
  serve       Serve the page over HTTP
  render      Write the page HTML to stdout
  version     Print version
  help        Show this help

Flags (also read from XLOSS_* environment variables):
  -a, -addr           listen address (default :8080)
  -log-level          debug, info, warn or error (default info)
  -expose             literal or variable (default literal)
  -source             plaintext or ciphertext (default plaintext)
  -per-call-tags      one custom element type per injection
  -id-retries         identifier draws per injection (default 16)
  -blank              empty page instead of the demo
  -shutdown-timeout   graceful shutdown bound (default 5s)

Examples:
  xloss serve -a localhost:8080
  XLOSS_EXPOSE=variable xloss render > page.html`)
}

// newPage builds the configured page, with the demo unless cfg.Blank.
func newPage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*xloss.Page, error) {
	opts, err := cfg.PageOptions(log.GetChildLogger().Logger)
	if err != nil {
		return nil, err
	}
	page, err := xloss.NewPage(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Blank {
		return page, nil
	}
	if err := demo.Build(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func runServe(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	log := logger.NewLogger("server", cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	page, err := newPage(ctx, cfg, log)
	if err != nil {
		return err
	}

	var opts []server.Option
	if !cfg.Blank {
		opts = append(opts, server.WithDemo())
	}
	handler := server.NewHandler(page, log, opts...)

	return server.New(cfg.Addr, handler.Init(), cfg.ShutdownTimeout, log).Run(ctx)
}

func runRender(args []string, w io.Writer) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	log := logger.New(os.Stderr, "cli", cfg.Level())

	page, err := newPage(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	return page.Render(w)
}
