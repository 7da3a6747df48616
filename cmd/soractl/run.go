package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/soracore/internal/config"
	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/httpapi"
	"github.com/dshills/soracore/internal/hub"
)

type runOptions struct {
	scripts []string
	level   string
	watch   bool
	once    bool
	serve   bool
	addr    string
}

func newRunCmd(g *globals) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Boot a headless runtime and run until interrupted",
		Example: "  soractl run -c sora.toml --script mods/boot.lua\n" +
			"  soractl run --level forest --once",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHub(cmd, g, opts)
		},
	}
	addRunFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.serve, "serve", false, "Serve the debug HTTP API")
	return cmd
}

func newServeCmd(g *globals) *cobra.Command {
	opts := &runOptions{serve: true}
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Boot a headless runtime and serve the debug HTTP API",
		Example: "  soractl serve --addr 127.0.0.1:7070",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHub(cmd, g, opts)
		},
	}
	addRunFlags(cmd, opts)
	return cmd
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringArrayVar(&opts.scripts, "script", nil, "Lua script to run at boot (repeatable)")
	cmd.Flags().StringVar(&opts.level, "level", "", "Level to load at boot (overrides config)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload the config file when it changes")
	cmd.Flags().BoolVar(&opts.once, "once", false, "Exit right after boot")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "HTTP listen address (overrides config)")
}

func runHub(cmd *cobra.Command, g *globals, opts *runOptions) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	cfg.Scripts = append(cfg.Scripts, opts.scripts...)
	if opts.level != "" {
		cfg.Level.Start = opts.level
	}
	if opts.addr != "" {
		cfg.HTTP.Addr = opts.addr
	}
	if opts.watch && g.configPath == "" {
		return errors.New("--watch needs --config")
	}

	sink := newSink(cfg, cmd.ErrOrStderr())
	h, err := hub.New(cfg, hub.WithSink(sink))
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			diag.For(sink, "soractl").Fault(diag.LevelError, "shutdown", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// A script emitting host.quit ends the run like a signal does.
	quit := h.Host.OnQuit(stop)
	defer quit.Cancel()

	if _, err := h.ActivateHeadless(ctx); err != nil {
		return err
	}
	var server *httpapi.Server
	if opts.serve {
		// Build the server before boot so that request metrics exist from
		// the start.
		server = httpapi.New(h)
	}
	if opts.watch {
		if _, err := h.Watch(g.configPath, config.DefaultDebounce); err != nil {
			return err
		}
	}
	if err := h.Boot(ctx); err != nil {
		return err
	}
	if opts.once {
		return nil
	}

	if server != nil {
		return server.ListenAndServe(ctx, cfg.HTTP.Addr, func(a net.Addr) {
			fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s\n", a)
		})
	}
	<-ctx.Done()
	return nil
}
