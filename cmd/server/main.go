// Command server runs Manygolf as a standalone websocket server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"manygolf/internal/auth"
	"manygolf/internal/config"
	"manygolf/internal/levelgen"
	"manygolf/internal/ports"
	"manygolf/internal/ports/ws"
	"manygolf/internal/protocol"
	"manygolf/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(*configPath, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(configPath string, logger *zap.Logger) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Server = cfg.Server.FromEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Server.TokenSecret == "" {
		return auth.ErrNoSecret
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := protocol.NewCodec(cfg.Server.Codec)
	if err != nil {
		return err
	}

	var (
		results     ports.ResultsPort = storage.NewLogResults(logger)
		leaderboard ports.LeaderboardPort
	)
	if cfg.Server.DatabaseDSN != "" {
		db, err := storage.Open(ctx, cfg.Server.DatabaseDSN, logger)
		if err != nil {
			return err
		}
		repo := storage.NewRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
		results, leaderboard = repo, repo

		pruner, err := storage.NewPruner(repo, time.Duration(cfg.Server.RetentionHrs)*time.Hour, storage.DefaultPruneSchedule, logger)
		if err != nil {
			return err
		}
		pruner.Start()
		defer pruner.Stop()
	} else {
		logger.Info("no database configured, match results are only logged")
	}

	room := ws.NewRoom(ws.RoomConfig{
		Timing:  cfg.Timing,
		Codec:   codec,
		Results: results,
		Levels:  levelgen.New(time.Now().UnixNano()),
		Logger:  logger,
	})
	go room.Run(ctx)

	server := ws.NewServer(ws.ServerConfig{
		Room:         room,
		Tokens:       auth.NewTokenService(cfg.Server.TokenSecret, cfg.Server.TokenIssuer, auth.DefaultTTL),
		Codec:        codec,
		Leaderboard:  leaderboard,
		AllowOrigins: cfg.Server.AllowOrigins,
		Logger:       logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("codec", codec.Name()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
