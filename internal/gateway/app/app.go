// Package app wires configuration, model backends, stores, and routing into
// a runnable API server.
package app

import (
	"context"
	"fmt"
	"log"

	"aiba/internal/engine"
	"aiba/internal/gateway/config"
	"aiba/internal/gateway/handler"
	"aiba/internal/gateway/repository/project"
	"aiba/internal/gateway/server"
	"aiba/internal/llm"
	"aiba/internal/llmclient"
)

type App struct {
	server   *server.Server
	catalog  *llmclient.Catalog
	projects *project.Store
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	catalog, priority, err := buildCatalog(cfg)
	if err != nil {
		return nil, err
	}

	invoker := engine.NewInvoker(catalog, priority, log.Default())
	eng := engine.NewService(invoker, cfg.LLM.SynthesisModel, log.Default())

	projects := project.NewFromDSN(cfg.DatabaseURL, cfg.ProjectStorePath)
	projects.EnsureLoaded()
	documents, err := initDocumentStore(cfg)
	if err != nil {
		return nil, err
	}

	h := handler.New(eng, projects, documents, log.Default())
	mux := server.NewMux(h)
	srv := server.New(cfg.Port, mux)

	return &App{
		server:   srv,
		catalog:  catalog,
		projects: projects,
	}, nil
}

// buildCatalog registers every configured backend and returns the fallback
// priority order, largest model first.
func buildCatalog(cfg *config.Config) (*llmclient.Catalog, []string, error) {
	catalog := llmclient.NewCatalog()
	catalog.SetWrapper(llm.Chain(
		llm.WithLogging(log.Default()),
		llm.WithHooks(),
		llm.WithRateLimit(cfg.LLM.RateLimitRPS, cfg.LLM.RateLimitBurst),
	))

	if err := llmclient.RegisterGroqModels(catalog, cfg.LLM.GroqAPIKey, cfg.LLM.GroqModels...); err != nil {
		return nil, nil, err
	}
	priority := append([]string(nil), cfg.LLM.GroqModels...)

	if cfg.LLM.GeminiModel != "" {
		if err := llmclient.RegisterGeminiModel(catalog, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel); err != nil {
			return nil, nil, err
		}
		priority = append(priority, cfg.LLM.GeminiModel)
	}
	if cfg.LLM.OpenAIModel != "" {
		if err := llmclient.RegisterOpenAIModel(catalog, cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, cfg.LLM.OpenAIModel); err != nil {
			return nil, nil, err
		}
		priority = append(priority, cfg.LLM.OpenAIModel)
	}
	return catalog, priority, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.projects.Save()
	_ = a.catalog.Close()
	return a.server.Shutdown(ctx)
}
