// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package app 装配 API 应用：模型组件 → 后端 → 路由 → Hertz server。
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	einoembed "github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzslog "github.com/hertz-contrib/logger/slog"
	"github.com/hertz-contrib/obs-opentelemetry/provider"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"

	apihttp "rag-gateway/internal/api/http"
	"rag-gateway/internal/api/http/middleware"
	"rag-gateway/internal/model/embedding"
	"rag-gateway/internal/model/llm"
	"rag-gateway/internal/pipeline/query"
	"rag-gateway/internal/vectordb"
	"rag-gateway/pkg/config"
	"rag-gateway/pkg/log"
)

// otelProviderShutdown 用于优雅关闭时关闭 OpenTelemetry provider
type otelProviderShutdown interface {
	Shutdown(ctx context.Context) error
}

// App API 应用
type App struct {
	config       *config.Config
	logger       *log.Logger
	router       *apihttp.Router
	hertz        *server.Hertz
	otelProvider otelProviderShutdown
}

// NewApp 装配 API 应用（由 cmd/api 调用）
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := log.NewLogger(&log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	// OpenAI 兼容透传客户端（/openai/v1/completions、/chat/completions）
	var llmClient *llm.OpenAIClient
	if cfg.Model.LLM.Name != "" {
		llmClient, err = llm.NewOpenAIClient(cfg.Model.LLM.Name, cfg.Model.LLM.APIKey, cfg.Model.LLM.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("创建 LLM 客户端失败: %w", err)
		}
	}

	// Embedder + ChatModel + 后端路由（任一向量库启用时装配）
	var backendRouter *vectordb.Router
	var embedder einoembed.Embedder
	if len(cfg.EnabledBackends()) > 0 {
		emb, err := embedding.NewEmbedderFromConfig(ctx, cfg.Model.Embedding)
		if err != nil {
			return nil, fmt.Errorf("创建 Embedder 失败: %w", err)
		}
		embedder = emb

		chatModel, err := openaimodel.NewChatModel(ctx, &openaimodel.ChatModelConfig{
			Model:   cfg.Model.LLM.Name,
			APIKey:  cfg.Model.LLM.APIKey,
			BaseURL: cfg.Model.LLM.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("创建 ChatModel 失败: %w", err)
		}
		generator, err := query.NewGenerator(chatModel, cfg.RAG.TopK)
		if err != nil {
			return nil, fmt.Errorf("创建 Generator 失败: %w", err)
		}

		backends, err := vectordb.BuildBackends(ctx, cfg, emb, generator)
		if err != nil {
			return nil, fmt.Errorf("初始化向量库后端失败: %w", err)
		}
		backendRouter = vectordb.NewRouter(backends, logger)
	}

	handler := apihttp.NewHandler(backendRouter, llmClient, embedder, cfg.Model.Embedding.Name)
	router := apihttp.NewRouter(handler, middleware.NewMiddleware())
	router.SetCORSEnabled(cfg.API.CORS.Enable)
	if cfg.API.Middleware.RateLimit {
		router.SetRateLimitRPS(cfg.API.Middleware.RateLimitRPS)
	}

	return &App{
		config: cfg,
		logger: logger,
		router: router,
	}, nil
}

// Run 启动 HTTP 服务（阻塞）
func (a *App) Run(addr string) error {
	a.logger.Info("API 服务启动", "addr", addr)

	// 使用 Hertz slog 扩展，与应用日志配置对齐
	levelVar := &slog.LevelVar{}
	switch a.config.Log.Level {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "warn":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
	hertzLogger := hertzslog.NewLogger(
		hertzslog.WithOutput(os.Stdout),
		hertzslog.WithLevel(levelVar),
	)
	hlog.SetLogger(hertzLogger)

	// 可选：启用链路追踪（OpenTelemetry）
	endpoint := a.config.Monitoring.OTLPEndpoint
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if endpoint != "" {
		p := provider.NewOpenTelemetryProvider(
			provider.WithServiceName(a.config.Monitoring.ServiceName),
			provider.WithExportEndpoint(endpoint),
			provider.WithInsecure(),
		)
		a.otelProvider = p
		tracerOpt, tracerCfg := hertztracing.NewServerTracer()
		a.hertz = a.router.Build(addr, tracerOpt)
		a.hertz.Use(hertztracing.ServerMiddleware(tracerCfg))
		a.logger.Info("链路追踪已启用", "service_name", a.config.Monitoring.ServiceName, "endpoint", endpoint)
	} else {
		a.hertz = a.router.Build(addr)
	}

	return a.hertz.Run()
}

// Shutdown 优雅关闭
func (a *App) Shutdown(ctx context.Context) error {
	if a.otelProvider != nil {
		_ = a.otelProvider.Shutdown(ctx)
	}
	if a.hertz != nil {
		return a.hertz.Shutdown(ctx)
	}
	return nil
}
