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

package http

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"

	"rag-gateway/internal/api/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	handler      *Handler
	middleware   *middleware.Middleware
	corsEnabled  bool
	rateLimitRPS int // <=0 表示不限流
}

// NewRouter 创建路由器
func NewRouter(handler *Handler, mw *middleware.Middleware) *Router {
	return &Router{handler: handler, middleware: mw, corsEnabled: true}
}

// SetRateLimitRPS 启用全局限流
func (r *Router) SetRateLimitRPS(rps int) {
	r.rateLimitRPS = rps
}

// SetCORSEnabled 控制 CORS 中间件
func (r *Router) SetCORSEnabled(enabled bool) {
	r.corsEnabled = enabled
}

// Build 创建 Hertz server 并注册路由
func (r *Router) Build(addr string, opts ...config.Option) *server.Hertz {
	allOpts := append([]config.Option{server.WithHostPorts(addr)}, opts...)
	h := server.Default(allOpts...)

	h.Use(r.middleware.Metrics())
	if r.corsEnabled {
		h.Use(r.middleware.CORS())
	}
	if r.rateLimitRPS > 0 {
		h.Use(r.middleware.RateLimit(r.rateLimitRPS))
	}

	api := h.Group("/api")
	api.GET("/health", r.handler.HealthCheck)

	h.GET("/metrics", r.handler.Metrics)

	// OpenAI 兼容端点
	v1 := h.Group("/openai/v1")
	v1.GET("/models", r.handler.ListModels)
	v1.POST("/completions", r.handler.CreateCompletion)
	v1.POST("/chat/completions", r.handler.CreateChatCompletion)
	v1.POST("/embeddings", r.handler.CreateEmbedding)

	// RAG 路由端点
	rag := h.Group("/rag")
	rag.POST("/vectorize", r.handler.Vectorize)
	rag.POST("/query", r.handler.Query)

	return h
}
