package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/tododb/internal/cli"
	"github.com/idilsaglam/tododb/internal/config"
	"github.com/idilsaglam/tododb/internal/logging"
	"github.com/idilsaglam/tododb/internal/store"
	"github.com/idilsaglam/tododb/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "config file (default "+config.DefaultPath()+")")
	groupPending := flag.Bool("group", false, "group output by pending/done")
	theme := flag.String("theme", "", "output theme: classic, neon or mono")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		cli.PrintHelp(os.Stdout)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		return 1
	}
	if err := cfg.SetTheme(*theme); err != nil {
		ui.Fail(os.Stderr, "-theme: "+err.Error())
		return 2
	}
	ui.SetTheme(cfg.UI.Theme)

	logger := logging.New(cfg.Logging, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Options{Dir: cfg.Database.Dir, Logger: logger})
	if err != nil {
		ui.Fail(os.Stderr, "open: "+err.Error())
		return 1
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("closing store", "error", err)
		}
	}()

	code := cli.New(st, cli.Options{
		Group: *groupPending || cfg.UI.Group,
	}).Run(ctx, args)
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
