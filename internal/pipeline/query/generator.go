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

package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Generator 基于检索结果用 ChatModel 合成回答
type Generator struct {
	chatModel model.BaseChatModel
	maxDocs   int
}

// NewGenerator 创建生成器；maxDocs 限制进入上下文的检索结果条数
func NewGenerator(chatModel model.BaseChatModel, maxDocs int) (*Generator, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("Generator 需要 ChatModel")
	}
	if maxDocs <= 0 {
		maxDocs = 10
	}
	return &Generator{chatModel: chatModel, maxDocs: maxDocs}, nil
}

// Generate 实现 vectordb.AnswerGenerator
func (g *Generator) Generate(ctx context.Context, prompt string, docs []*schema.Document) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage("你是一个专业的问答助手，仅基于提供的参考资料回答用户问题；资料不足时明确说明。"),
		schema.UserMessage(g.buildPrompt(prompt, docs)),
	}
	out, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("调用 LLM 失败: %w", err)
	}
	return out.Content, nil
}

// buildPrompt 构建提示词（参考资料 + 用户问题）
func (g *Generator) buildPrompt(prompt string, docs []*schema.Document) string {
	var b strings.Builder
	b.WriteString("参考资料：\n")
	for i, doc := range docs {
		if i >= g.maxDocs {
			break
		}
		if doc == nil || doc.Content == "" {
			continue
		}
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, doc.Content)
	}
	b.WriteString("用户问题：\n")
	b.WriteString(prompt)
	b.WriteString("\n\n回答：")
	return b.String()
}
