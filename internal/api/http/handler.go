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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	einoembed "github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"rag-gateway/internal/model/llm"
	"rag-gateway/internal/openai"
	"rag-gateway/internal/pipeline/ingest"
	"rag-gateway/internal/vectordb"
	"rag-gateway/pkg/metrics"
	"rag-gateway/pkg/utils"
)

// Handler HTTP 处理器
type Handler struct {
	router         *vectordb.Router
	llmClient      *llm.OpenAIClient
	embedder       einoembed.Embedder
	embeddingModel string
}

// NewHandler 创建 HTTP 处理器
func NewHandler(router *vectordb.Router, llmClient *llm.OpenAIClient, embedder einoembed.Embedder, embeddingModel string) *Handler {
	return &Handler{
		router:         router,
		llmClient:      llmClient,
		embedder:       embedder,
		embeddingModel: embeddingModel,
	}
}

// HealthCheck GET /api/health
func (h *Handler) HealthCheck(c context.Context, ctx *app.RequestContext) {
	backends := []string{}
	if h.router != nil {
		backends = h.router.Backends()
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"service":   "rag-gateway",
		"backends":  backends,
	})
}

// Metrics GET /metrics
func (h *Handler) Metrics(c context.Context, ctx *app.RequestContext) {
	var buf bytes.Buffer
	if err := metrics.WritePrometheus(&buf); err != nil {
		ctx.JSON(consts.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	ctx.Data(consts.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

// ListModels GET /openai/v1/models
func (h *Handler) ListModels(c context.Context, ctx *app.RequestContext) {
	ids := make([]string, 0, 2)
	if h.llmClient != nil {
		ids = append(ids, h.llmClient.Model())
	}
	if h.embeddingModel != "" {
		ids = append(ids, h.embeddingModel)
	}
	ctx.JSON(consts.StatusOK, openai.NewModelList(ids...))
}

// CreateCompletion POST /openai/v1/completions
func (h *Handler) CreateCompletion(c context.Context, ctx *app.RequestContext) {
	var req openai.CompletionRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	req.Normalize()
	if h.llmClient == nil {
		ctx.JSON(consts.StatusServiceUnavailable, map[string]string{"error": "LLM backend is not configured"})
		return
	}

	resp, err := h.llmClient.Complete(c, &req)
	if err != nil {
		hlog.CtxErrorf(c, "completion failed: %v", err)
		ctx.JSON(consts.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

// CreateChatCompletion POST /openai/v1/chat/completions（stream=true 时返回 SSE）
func (h *Handler) CreateChatCompletion(c context.Context, ctx *app.RequestContext) {
	var req openai.ChatCompletionRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	req.Normalize()
	if len(req.Messages) == 0 {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": "messages is required"})
		return
	}
	if h.llmClient == nil {
		ctx.JSON(consts.StatusServiceUnavailable, map[string]string{"error": "LLM backend is not configured"})
		return
	}

	streaming := req.Streaming()
	// 上游统一走非流式；流式请求在网关侧转为 SSE chunk
	req.Stream = nil
	resp, err := h.llmClient.Chat(c, &req)
	if err != nil {
		hlog.CtxErrorf(c, "chat completion failed: %v", err)
		ctx.JSON(consts.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	if !streaming {
		ctx.JSON(consts.StatusOK, resp)
		return
	}

	content := ""
	finish := "stop"
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finish = resp.Choices[0].FinishReason
	}
	ctx.Data(consts.StatusOK, "text/event-stream; charset=utf-8", chatSSEBody(utils.NewID("chatcmpl"), resp.Model, content, finish))
}

// chatSSEBody 组装 SSE 响应：内容 chunk + 结束 chunk + [DONE]
func chatSSEBody(id, model, content, finishReason string) []byte {
	var buf bytes.Buffer
	writeSSE := func(v any) {
		data, err := json.Marshal(v)
		if err != nil {
			return
		}
		fmt.Fprintf(&buf, "data: %s\n\n", data)
	}
	writeSSE(openai.NewChatCompletionChunk(id, model, content, nil))
	writeSSE(openai.NewChatCompletionChunk(id, model, "", &finishReason))
	buf.WriteString("data: [DONE]\n\n")
	return buf.Bytes()
}

// CreateEmbedding POST /openai/v1/embeddings
func (h *Handler) CreateEmbedding(c context.Context, ctx *app.RequestContext) {
	var req openai.CreateEmbeddingRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if len(req.Input.Texts) == 0 {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": "input is required"})
		return
	}
	if h.embedder == nil {
		ctx.JSON(consts.StatusServiceUnavailable, map[string]string{"error": "embedding backend is not configured"})
		return
	}

	vectors, err := h.embedder.EmbedStrings(c, req.Input.Texts)
	if err != nil {
		hlog.CtxErrorf(c, "embedding failed: %v", err)
		ctx.JSON(consts.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	model := utils.CoalesceString(req.Model, h.embeddingModel)
	ctx.JSON(consts.StatusOK, openai.NewCreateEmbeddingResponse(model, vectors))
}

// VectorizeRequest POST /rag/vectorize 请求体
type VectorizeRequest struct {
	Documents []ingest.Document `json:"documents"`
	// VDBs 指定只写入这些后端（空则写入全部启用后端）
	VDBs []string `json:"vdbs,omitempty"`
}

// VectorizeResponse POST /rag/vectorize 响应体
type VectorizeResponse struct {
	Processed []string `json:"vdbs_processed"`
}

// Vectorize POST /rag/vectorize
func (h *Handler) Vectorize(c context.Context, ctx *app.RequestContext) {
	var req VectorizeRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if len(req.Documents) == 0 {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": "documents is required"})
		return
	}
	if h.router == nil {
		ctx.JSON(consts.StatusServiceUnavailable, map[string]string{"error": "no vector store backend configured"})
		return
	}

	docs, err := ingest.ToSchemaDocuments(req.Documents)
	if err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	processed, err := h.router.Vectorize(c, docs, req.VDBs)
	if err != nil {
		hlog.CtxErrorf(c, "vectorize failed: %v", err)
		ctx.JSON(consts.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	ctx.JSON(consts.StatusOK, VectorizeResponse{Processed: processed})
}

// QueryRequest POST /rag/query 请求体
type QueryRequest struct {
	Prompt string `json:"prompt"`
}

// Query POST /rag/query
func (h *Handler) Query(c context.Context, ctx *app.RequestContext) {
	var req QueryRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Prompt == "" {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": "prompt is required"})
		return
	}
	if h.router == nil {
		ctx.JSON(consts.StatusServiceUnavailable, map[string]string{"error": "no vector store backend configured"})
		return
	}

	result, err := h.router.Query(c, req.Prompt)
	if err != nil {
		hlog.CtxErrorf(c, "query failed: %v", err)
		ctx.JSON(consts.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	ctx.JSON(consts.StatusOK, result)
}
