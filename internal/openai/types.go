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

// Package openai mirrors the OpenAI HTTP API's completion, chat, embedding
// and model-listing JSON bodies field for field.
package openai

import (
	"encoding/json"
	"fmt"
	"time"

	"rag-gateway/pkg/utils"
)

// 可选字段缺省值，与上游 API 一致
const (
	DefaultCompletionMaxTokens = 16
	DefaultChatMaxTokens       = 128
	DefaultTemperature         = 1.0

	ObjectCompletion     = "text_completion"
	ObjectChatCompletion = "chat.completion"
	ObjectChatChunk      = "chat.completion.chunk"
	ObjectEmbedding      = "embedding"
	ObjectEmbeddingList  = "list"
	ObjectModel          = "model"
	ObjectList           = "list"
	DefaultModelOwner    = "rag-gateway"
)

// Usage token 用量统计
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Prompt 为 string 或 token id 数组二选一（上游 API 的 prompt 联合类型）
type Prompt struct {
	Text   string
	Tokens []int
}

// MarshalJSON 实现 json.Marshaler
func (p Prompt) MarshalJSON() ([]byte, error) {
	if p.Tokens != nil {
		return json.Marshal(p.Tokens)
	}
	return json.Marshal(p.Text)
}

// UnmarshalJSON 实现 json.Unmarshaler
func (p *Prompt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Text = s
		p.Tokens = nil
		return nil
	}
	var toks []int
	if err := json.Unmarshal(data, &toks); err == nil {
		p.Tokens = toks
		p.Text = ""
		return nil
	}
	return fmt.Errorf("prompt must be a string or an array of token ids")
}

// CompletionRequest POST /openai/v1/completions 请求体
type CompletionRequest struct {
	Model        string   `json:"model"`
	Prompt       Prompt   `json:"prompt"`
	Stream       *bool    `json:"stream,omitempty"`
	MaxNewTokens *int     `json:"max_new_tokens,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
}

// Normalize 填充未出现字段的缺省值
func (r *CompletionRequest) Normalize() {
	if r.Stream == nil {
		r.Stream = boolPtr(false)
	}
	if r.MaxNewTokens == nil {
		r.MaxNewTokens = intPtr(DefaultCompletionMaxTokens)
	}
	if r.Temperature == nil {
		r.Temperature = floatPtr(DefaultTemperature)
	}
}

// CompletionChoice 单条补全结果
type CompletionChoice struct {
	Index        int    `json:"index"`
	Text         string `json:"text"`
	Logprobs     any    `json:"logprobs"`
	FinishReason string `json:"finish_reason"`
}

// CompletionResponse POST /openai/v1/completions 响应体
type CompletionResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
}

// NewCompletionResponse 构造单 choice 补全响应
func NewCompletionResponse(model, text, finishReason string) *CompletionResponse {
	return &CompletionResponse{
		ID:      utils.NewID("cmpl"),
		Object:  ObjectCompletion,
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []CompletionChoice{{
			Index:        0,
			Text:         text,
			FinishReason: finishReason,
		}},
	}
}

// ChatFunction 函数调用声明
type ChatFunction struct {
	Name        string            `json:"name"`
	Parameters  map[string]string `json:"parameters"`
	Description string            `json:"description"`
}

// ChatMessage 对话消息
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatDelta 流式增量消息
type ChatDelta struct {
	Role    string  `json:"role"`
	Content *string `json:"content,omitempty"`
}

// ChatCompletionRequest POST /openai/v1/chat/completions 请求体
type ChatCompletionRequest struct {
	Model       string         `json:"model"`
	Messages    []ChatMessage  `json:"messages"`
	Functions   []ChatFunction `json:"functions,omitempty"`
	Temperature *float64       `json:"temperature,omitempty"`
	Stream      *bool          `json:"stream,omitempty"`
	Stop        *string        `json:"stop,omitempty"`
	MaxTokens   *int           `json:"max_tokens,omitempty"`
}

// Normalize 填充未出现字段的缺省值
func (r *ChatCompletionRequest) Normalize() {
	if r.Temperature == nil {
		r.Temperature = floatPtr(DefaultTemperature)
	}
	if r.Stream == nil {
		r.Stream = boolPtr(false)
	}
	if r.MaxTokens == nil {
		r.MaxTokens = intPtr(DefaultChatMaxTokens)
	}
}

// Streaming 返回是否要求 SSE 流式响应
func (r *ChatCompletionRequest) Streaming() bool {
	return r.Stream != nil && *r.Stream
}

// ChatChoice 非流式对话结果
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatStreamChoice 流式对话增量结果
type ChatStreamChoice struct {
	Index        int       `json:"index"`
	Delta        ChatDelta `json:"delta"`
	FinishReason *string   `json:"finish_reason"`
}

// ChatCompletionResponse 非流式对话响应体
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage"`
}

// ChatCompletionStreamResponse 流式 chunk 响应体（choices 为 delta）
type ChatCompletionStreamResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []ChatStreamChoice `json:"choices"`
}

// NewChatCompletionResponse 构造单 choice 对话响应
func NewChatCompletionResponse(model, content, finishReason string, usage *Usage) *ChatCompletionResponse {
	return &ChatCompletionResponse{
		ID:      utils.NewID("chatcmpl"),
		Object:  ObjectChatCompletion,
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []ChatChoice{{
			Index:        0,
			Message:      ChatMessage{Role: "assistant", Content: content},
			FinishReason: finishReason,
		}},
		Usage: usage,
	}
}

// NewChatCompletionChunk 构造单 choice 流式 chunk，id 在一次流内保持一致
func NewChatCompletionChunk(id, model, content string, finishReason *string) *ChatCompletionStreamResponse {
	return &ChatCompletionStreamResponse{
		ID:      id,
		Object:  ObjectChatChunk,
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []ChatStreamChoice{{
			Index:        0,
			Delta:        ChatDelta{Role: "assistant", Content: &content},
			FinishReason: finishReason,
		}},
	}
}

// EmbeddingInput 为 string 或 []string 二选一（上游 API 的 input 联合类型）
type EmbeddingInput struct {
	Texts []string
}

// MarshalJSON 实现 json.Marshaler；单元素按原样输出数组
func (e EmbeddingInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Texts)
}

// UnmarshalJSON 实现 json.Unmarshaler
func (e *EmbeddingInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Texts = []string{s}
		return nil
	}
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		e.Texts = ss
		return nil
	}
	return fmt.Errorf("input must be a string or an array of strings")
}

// CreateEmbeddingRequest POST /openai/v1/embeddings 请求体
type CreateEmbeddingRequest struct {
	Model string         `json:"model"`
	Input EmbeddingInput `json:"input"`
	User  string         `json:"user,omitempty"`
}

// Embedding 单条向量结果
type Embedding struct {
	Index     int       `json:"index"`
	Object    string    `json:"object"`
	Embedding []float64 `json:"embedding"`
}

// CreateEmbeddingResponse POST /openai/v1/embeddings 响应体
type CreateEmbeddingResponse struct {
	Object string      `json:"object"`
	Data   []Embedding `json:"data"`
	Model  string      `json:"model"`
	Usage  *Usage      `json:"usage,omitempty"`
}

// NewCreateEmbeddingResponse 按输入顺序组装向量响应
func NewCreateEmbeddingResponse(model string, vectors [][]float64) *CreateEmbeddingResponse {
	data := make([]Embedding, 0, len(vectors))
	for i, v := range vectors {
		data = append(data, Embedding{Index: i, Object: ObjectEmbedding, Embedding: v})
	}
	return &CreateEmbeddingResponse{Object: ObjectEmbeddingList, Data: data, Model: model}
}

// Model 模型列表单项
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// NewModel 构造模型项，object/owned_by 使用缺省值
func NewModel(id string) Model {
	return Model{ID: id, Object: ObjectModel, Created: 0, OwnedBy: DefaultModelOwner}
}

// ModelList GET /openai/v1/models 响应体
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// NewModelList 构造模型列表响应；data 永不为 null
func NewModelList(ids ...string) *ModelList {
	data := make([]Model, 0, len(ids))
	for _, id := range ids {
		data = append(data, NewModel(id))
	}
	return &ModelList{Object: ObjectList, Data: data}
}

func boolPtr(b bool) *bool        { return &b }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
