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

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rag-gateway/internal/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Chat(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(openai.NewChatCompletionResponse("m", "hi there", "stop", nil))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient("m", "sk-test", srv.URL)
	require.NoError(t, err)

	req := &openai.ChatCompletionRequest{
		Messages: []openai.ChatMessage{{Role: "user", Content: "hello"}},
	}
	req.Normalize()
	resp, err := client.Chat(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "m", gotReq.Model)
	require.NotNil(t, gotReq.MaxTokens)
	assert.Equal(t, openai.DefaultChatMaxTokens, *gotReq.MaxTokens)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "hi there", resp.Choices[0].Message.Content)
}

func TestOpenAIClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.CompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		resp := openai.NewCompletionResponse(req.Model, "completed: "+req.Prompt.Text, "stop")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewOpenAIClient("m", "sk-test", srv.URL)
	require.NoError(t, err)

	req := &openai.CompletionRequest{Prompt: openai.Prompt{Text: "p"}}
	req.Normalize()
	resp, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "completed: p", resp.Choices[0].Text)
}

func TestOpenAIClient_Complete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad model"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := NewOpenAIClient("m", "sk-test", srv.URL)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), &openai.CompletionRequest{Prompt: openai.Prompt{Text: "p"}})
	assert.Error(t, err)
}
