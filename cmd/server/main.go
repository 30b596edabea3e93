package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/wordharbor/internal/catalog"
	"github.com/xtding233/wordharbor/internal/config"
	"github.com/xtding233/wordharbor/internal/gacha"
	"github.com/xtding233/wordharbor/internal/logger"
	"github.com/xtding233/wordharbor/internal/persist"
	"github.com/xtding233/wordharbor/internal/progress"
	"github.com/xtding233/wordharbor/internal/rpc"
)

func main() {
	fs := pflag.NewFlagSet("wordharbor", pflag.ExitOnError)
	config.Flags(fs)
	overlays := fs.StringSlice("catalog.overlay", nil, "catalog overlay files applied in order")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	if err := run(cfg, append(cfg.Catalog.Overlays, *overlays...), log); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

func run(cfg config.Config, overlays []string, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.Catalog.Path, overlays...)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	engine, err := gacha.NewEngine(cat, cfg.Engine(), nil)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	backend, err := persist.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer backend.Close()

	adapter := persist.NewAdapter(backend, cfg.Store.Key, func() progress.State {
		return progress.NewState(cfg.Rules())
	}, log)
	store := progress.Open(ctx, cat, cfg.Rules(), adapter, log)
	log.Info("progress loaded",
		"backend", backend.Name(),
		"catalog_version", cat.Version(),
		"cards", cat.Len(),
		"owned", len(store.Snapshot().OwnedCardIDs),
	)

	lis, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}
	srv := rpc.NewServer(rpc.NewService(store, cat, engine, log), log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", lis.Addr().String(), "service", rpc.ServiceName)
		return srv.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			log.Warn("graceful stop timed out, forcing")
			srv.Stop()
		}
		return nil
	})
	return g.Wait()
}
