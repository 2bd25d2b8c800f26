package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/xtding233/petgacha/internal/config"
	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/logs"
	"github.com/xtding233/petgacha/internal/savestore"
	"github.com/xtding233/petgacha/internal/server"
	"github.com/xtding233/petgacha/internal/session"
	"github.com/xtding233/petgacha/internal/settings"
)

func main() {
	settingsPath := flag.String("settings", "", "path to settings.yaml (optional)")
	flag.Parse()

	if err := run(*settingsPath); err != nil {
		fmt.Fprintln(os.Stderr, "petgacha:", err)
		os.Exit(1)
	}
}

func run(settingsPath string) error {
	st, err := settings.Load(settingsPath)
	if err != nil {
		return err
	}
	if err := logs.Init("petgacha", st.Log); err != nil {
		return err
	}
	defer func() { _ = logs.Sync() }()
	if !st.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	loader := config.NewLoader(st.Config.Dir)
	_, eco, err := loader.Resolve()
	if err != nil {
		return fmt.Errorf("economy config: %w", err)
	}

	var rng gacha.RandomSource
	if st.Seed != 0 {
		rng = gacha.NewSeededRNG(st.Seed)
	}
	sess, err := session.New(eco, session.Options{RNG: rng, Logger: logs.L().Named("session")})
	if err != nil {
		return err
	}

	saves, err := savestore.Open(st.Save.Backend, st.Save.Path)
	if err != nil {
		return fmt.Errorf("save store: %w", err)
	}
	defer saves.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if slot := st.Save.Autoload; slot != "" {
		switch err := sess.LoadFrom(ctx, saves, slot); {
		case err == nil:
			logs.Info("autoloaded save", zap.String("slot", slot))
		case errors.Is(err, savestore.ErrSlotNotFound):
			logs.Info("no save to autoload, starting fresh", zap.String("slot", slot))
		default:
			return fmt.Errorf("autoload %s: %w", slot, err)
		}
	}

	if st.Config.Dir != "" && st.Config.Watch {
		w := config.WatchLoader(loader, st.Config.Debounce, func(path string) {
			_, next, err := loader.Resolve()
			if err != nil {
				logs.Warn("config reload rejected", zap.String("path", path), zap.Error(err))
				return
			}
			if err := sess.Reconfigure(next); err != nil {
				logs.Warn("config reload rejected", zap.String("path", path), zap.Error(err))
			}
		})
		if err := w.Start(); err != nil {
			return fmt.Errorf("config watch: %w", err)
		}
		defer w.Stop()
	}

	healthSrv := health.NewServer()
	var grpcSrv *grpc.Server
	errCh := make(chan error, 2)
	if st.GRPC.Addr != "" {
		lis, err := net.Listen("tcp", st.GRPC.Addr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		grpcSrv = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcSrv, healthSrv)
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		go func() {
			logs.Info("grpc health listening", zap.String("addr", st.GRPC.Addr))
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
	}

	httpSrv := server.New(st.HTTP.Addr, sess, saves, logs.L().Named("http"), server.Options{
		RateLimit: st.HTTP.RateLimit,
		Burst:     st.HTTP.Burst,
	})
	go func() {
		logs.Info("http listening", zap.String("addr", st.HTTP.Addr), zap.Int("pools", len(eco.Gacha.Pools)))
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logs.Info("shutting down")
	case err = <-errCh:
		logs.Error("server failed", zap.Error(err))
	}

	healthSrv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), st.HTTP.ShutdownTimeout)
	defer cancel()
	if serr := httpSrv.Shutdown(shutdownCtx); serr != nil {
		logs.Warn("http shutdown", zap.Error(serr))
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	return err
}
