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
	"net/http"
	"net/http/httptest"
	"testing"

	einoembed "github.com/cloudwego/eino/components/embedding"

	"rag-gateway/internal/api/http/middleware"
	"rag-gateway/internal/model/llm"
	"rag-gateway/internal/openai"
)

// stubEmbedder 返回固定维度向量
type stubEmbedder struct{}

func (s *stubEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...einoembed.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range out {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}

func TestHandler_CreateEmbedding(t *testing.T) {
	h := NewHandler(nil, nil, &stubEmbedder{}, "text-embedding-3-small")
	s := NewRouter(h, middleware.NewMiddleware()).Build(":0")

	w := performJSON(t, s, "POST", "/openai/v1/embeddings", `{"model":"","input":["a","b"]}`)
	if got := w.Result().StatusCode(); got != 200 {
		t.Fatalf("status = %d: %s", got, w.Result().Body())
	}

	var resp openai.CreateEmbeddingResponse
	if err := json.Unmarshal(w.Result().Body(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Object != "list" || len(resp.Data) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Data[1].Index != 1 || resp.Data[1].Object != "embedding" {
		t.Errorf("data[1] = %+v", resp.Data[1])
	}
	if resp.Model != "text-embedding-3-small" {
		t.Errorf("model = %q, want configured default", resp.Model)
	}
}

func TestHandler_CreateEmbedding_StringInput(t *testing.T) {
	h := NewHandler(nil, nil, &stubEmbedder{}, "emb")
	s := NewRouter(h, middleware.NewMiddleware()).Build(":0")

	w := performJSON(t, s, "POST", "/openai/v1/embeddings", `{"model":"emb","input":"solo"}`)
	if got := w.Result().StatusCode(); got != 200 {
		t.Fatalf("status = %d: %s", got, w.Result().Body())
	}
	var resp openai.CreateEmbeddingResponse
	if err := json.Unmarshal(w.Result().Body(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Errorf("data = %+v, want single embedding", resp.Data)
	}
}

func newUpstreamChat(t *testing.T, content string) *llm.OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.NewChatCompletionResponse("m", content, "stop", &openai.Usage{TotalTokens: 2}))
	}))
	t.Cleanup(srv.Close)
	client, err := llm.NewOpenAIClient("m", "sk-test", srv.URL)
	if err != nil {
		t.Fatalf("NewOpenAIClient: %v", err)
	}
	return client
}

func TestHandler_ChatCompletion(t *testing.T) {
	h := NewHandler(nil, newUpstreamChat(t, "pong"), nil, "")
	s := NewRouter(h, middleware.NewMiddleware()).Build(":0")

	body := `{"model":"m","messages":[{"role":"user","content":"ping"}]}`
	w := performJSON(t, s, "POST", "/openai/v1/chat/completions", body)
	if got := w.Result().StatusCode(); got != 200 {
		t.Fatalf("status = %d: %s", got, w.Result().Body())
	}

	var resp openai.ChatCompletionResponse
	if err := json.Unmarshal(w.Result().Body(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Choices[0].Message.Content != "pong" {
		t.Errorf("content = %q", resp.Choices[0].Message.Content)
	}
}

func TestHandler_ChatCompletionStream(t *testing.T) {
	h := NewHandler(nil, newUpstreamChat(t, "pong"), nil, "")
	s := NewRouter(h, middleware.NewMiddleware()).Build(":0")

	body := `{"model":"m","stream":true,"messages":[{"role":"user","content":"ping"}]}`
	w := performJSON(t, s, "POST", "/openai/v1/chat/completions", body)
	if got := w.Result().StatusCode(); got != 200 {
		t.Fatalf("status = %d: %s", got, w.Result().Body())
	}

	respBody := w.Result().Body()
	if !bytes.Contains(respBody, []byte("data: ")) || !bytes.Contains(respBody, []byte("[DONE]")) {
		t.Fatalf("body is not SSE: %s", respBody)
	}
	if !bytes.Contains(respBody, []byte(`"chat.completion.chunk"`)) {
		t.Errorf("stream body missing chunk object: %s", respBody)
	}
}

func TestHandler_ChatCompletionMissingMessages(t *testing.T) {
	h := NewHandler(nil, newUpstreamChat(t, "x"), nil, "")
	s := NewRouter(h, middleware.NewMiddleware()).Build(":0")

	w := performJSON(t, s, "POST", "/openai/v1/chat/completions", `{"model":"m"}`)
	if got := w.Result().StatusCode(); got != 400 {
		t.Fatalf("status = %d, want 400", got)
	}
}
