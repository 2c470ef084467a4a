package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/chatmodels"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/memory"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/tools"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/api"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/core"
	pkgredis "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/redis"

	logx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/logger"
)

// AppConfig defines all configurable parameters for the trip planner
// agent, sourced from environment variables (loaded from .env for local
// runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`
	LogPath     string `envconfig:"AGENT_LOG_PATH"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Planner      model.PlannerModelConfig
	Parser       model.ParserModelConfig
	Loop         model.LoopConfig
	Conversation model.ConversationConfig
	Features     model.FeatureConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{
		Environment: core.ParseEnvironment(envCfg.Environment),
		SinkPath:    envCfg.LogPath,
	})

	store, closeStore, err := buildStore(&envCfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise conversation store")
	}
	defer closeStore()

	models, err := chatmodels.New(ctx, chatmodels.Config{
		APIKey:  envCfg.APIKey,
		BaseURL: envCfg.BaseURL,
		Planner: &envCfg.Planner,
		Parser:  &envCfg.Parser,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create chat models")
	}

	registry := tools.DefaultRegistry()
	if err := models.BindToolsToPlanner(ctx, registry.Specs()); err != nil {
		logx.Fatal().Err(err).Msg("Failed to bind tools")
	}

	a := agent.New(agent.Config{
		Store:    store,
		Planner:  models.Planner,
		Parser:   models.Parser,
		Registry: registry,
		Loop:     envCfg.Loop,
		Features: envCfg.Features,
	})

	server := api.NewServer(api.Config{ListenAddr: envCfg.ListenAddr}, a)

	go func() {
		if err := server.Run(); err != nil {
			logx.Fatal().Err(err).Msg("API server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logx.Info().Msg("Shutting down")
	if err := server.Shutdown(); err != nil {
		logx.Error().Err(err).Msg("Shutdown failed")
	}
}

// buildStore picks the Redis-backed store when REDIS_URL is set and the
// in-memory store otherwise.
func buildStore(cfg *AppConfig) (model.ConversationStore, func(), error) {
	if !cfg.Redis.Enabled() {
		logx.Info().Msg("Using in-memory conversation store")
		return memory.NewStore(cfg.Conversation.MaxMessages), func() {}, nil
	}

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		return nil, nil, err
	}
	rdb, err := cfg.Redis.New()
	if err != nil {
		return nil, nil, err
	}
	logx.Info().Msg("Using Redis conversation store")
	return memory.NewRedisStore(rdb, ttl, cfg.Conversation.MaxMessages), func() { _ = rdb.Close() }, nil
}
