package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zpersona/internal/cli"
	"github.com/zarlcorp/zpersona/internal/config"
	"github.com/zarlcorp/zpersona/internal/fixture"
	"github.com/zarlcorp/zpersona/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := zapp.New(zapp.WithName("zpersona"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "zpersona: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.Logger(os.Stderr))

	if len(os.Args) > 1 {
		err := runCLI(ctx, cfg, os.Args[1], os.Args[2:])
		_ = app.Close()
		if err != nil && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "zpersona: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runTUI(cfg); err != nil {
		slog.Error("tui", "err", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

func runCLI(ctx context.Context, cfg *config.Config, cmd string, args []string) error {
	env := cli.Env{
		Config: cfg,
		Log:    slog.Default(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	switch cmd {
	case "version":
		fmt.Printf("zpersona %s\n", version)
		fmt.Printf("config %s\n", cfg.File())
		return nil
	case "identity":
		return cli.CmdIdentity(env, args)
	case "username":
		return cli.CmdUsername(env, args)
	case "batch":
		return cli.CmdBatch(env, args)
	case "seed":
		return cli.CmdSeed(ctx, env, args)
	case "list":
		return cli.CmdList(env, args)
	case "forget":
		return cli.CmdForget(env, args)
	case "serve":
		return cli.CmdServe(ctx, env, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runTUI(cfg *config.Config) error {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = cli.DataDir()
	}

	c, err := cfg.Composer()
	if err != nil {
		return err
	}
	gen := fixture.Generator{Composer: c, Window: cfg.Age}

	m := tui.New(version, dataDir, gen, cli.IsFirstRun(dataDir))
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if fm, ok := finalModel.(tui.Model); ok {
		fm.Close()
	}

	return nil
}
