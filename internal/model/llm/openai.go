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
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	"rag-gateway/internal/openai"
)

// OpenAIClient OpenAI 兼容上游客户端（completions / chat completions 透传）
type OpenAIClient struct {
	model   string
	apiKey  string
	baseURL string
	client  *resty.Client
}

// NewOpenAIClient 创建 OpenAI 兼容客户端；baseURL 为空时用默认或 OPENAI_BASE_URL
func NewOpenAIClient(model, apiKey, baseURL string) (*OpenAIClient, error) {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
		if envURL := os.Getenv("OPENAI_BASE_URL"); envURL != "" {
			baseURL = envURL
		}
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetRetryMaxWaitTime(5 * time.Second)

	return &OpenAIClient{
		model:   model,
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
	}, nil
}

// Model 返回缺省模型名
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete 调用上游 /completions，请求体原样透传
func (c *OpenAIClient) Complete(ctx context.Context, req *openai.CompletionRequest) (*openai.CompletionResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	var out openai.CompletionResponse
	if err := c.post(ctx, "/completions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat 调用上游 /chat/completions（非流式），请求体原样透传
func (c *OpenAIClient) Chat(ctx context.Context, req *openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	var out openai.ChatCompletionResponse
	if err := c.post(ctx, "/chat/completions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *OpenAIClient) post(ctx context.Context, path string, body, out any) error {
	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(body).
		Post(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("调用上游 API failed: %w", err)
	}
	if response.StatusCode() != http.StatusOK {
		return fmt.Errorf("上游 API 返回错误 %d: %s", response.StatusCode(), response.String())
	}
	if err := json.Unmarshal(response.Body(), out); err != nil {
		return fmt.Errorf("解析上游响应 failed: %w", err)
	}
	return nil
}
