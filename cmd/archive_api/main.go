// Package main Archiwum API
// @title Archiwum API
// @version 1.0
// @description Gated search API over a Polish historical document archive
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dzielazebrane/archiwum/internal/embedding"
	"github.com/dzielazebrane/archiwum/internal/middleware"
	"github.com/dzielazebrane/archiwum/internal/quota"
	"github.com/dzielazebrane/archiwum/internal/router"
	"github.com/dzielazebrane/archiwum/internal/search"
	"github.com/dzielazebrane/archiwum/internal/server"
	"github.com/dzielazebrane/archiwum/internal/storage/pg"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	appCfg, err := LoadAppConfig()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	pool, err := pg.NewConnectionPool(context.Background(), pg.PoolConfig{
		ConnStr: appCfg.Postgres.ConnectionString,
	})
	if err != nil {
		slog.Error("Failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	s := server.New(sCfg, pg.NewHealthChecker(pool))
	s.SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/healthz").
		SetupOpenApi("/swagger/*")

	s.Echo.Use(middleware.ResolveIdentity())

	var engineOpts []search.EngineOption
	if appCfg.Search.CandidateLimit > 0 {
		engineOpts = append(engineOpts, search.WithCandidateLimit(appCfg.Search.CandidateLimit))
	}
	if appCfg.Embedding.Enabled {
		client, err := embedding.NewOllamaClient(appCfg.Embedding.BaseURL)
		if err != nil {
			slog.Error("Failed to create embedding client", "error", err)
			os.Exit(1)
		}
		var embOpts []embedding.EmbedderOption
		if appCfg.Embedding.Model != "" {
			embOpts = append(embOpts, embedding.WithModel(appCfg.Embedding.Model))
		}
		engineOpts = append(engineOpts, search.WithEmbedder(embedding.NewEmbedder(client, embOpts...)))
		slog.Info("Semantic search enabled", "model", appCfg.Embedding.Model)
	} else {
		slog.Info("Semantic search disabled")
	}

	engine := search.NewEngine(pg.NewSearcher(pool), pg.NewEnricher(pool), engineOpts...)
	reader := pg.NewReader(pool)
	ledger := pg.NewLedger(pool)
	gate := quota.NewGate(ledger)

	router.NewSearchRouter(s.Echo, engine, gate).Bind()
	router.NewDocumentRouter(s.Echo, reader, gate).Bind()
	router.NewMetaRouter(s.Echo, reader).Bind()
	router.NewAdminRouter(s.Echo, ledger).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
