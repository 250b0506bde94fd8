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

package embedding

import (
	"context"
	"fmt"
	"time"

	openaiembed "github.com/cloudwego/eino-ext/components/embedding/openai"
	einoembed "github.com/cloudwego/eino/components/embedding"

	"rag-gateway/pkg/config"
)

// NewEmbedderFromConfig 根据模型配置创建 eino Embedder。
// provider 为 openai 或任意 OpenAI 兼容端点（base_url 区分）。
func NewEmbedderFromConfig(ctx context.Context, spec config.ModelSpec) (einoembed.Embedder, error) {
	switch spec.Provider {
	case "", "openai":
		model := spec.Name
		if model == "" {
			model = "text-embedding-3-small"
		}
		cfg := &openaiembed.EmbeddingConfig{
			APIKey:  spec.APIKey,
			Model:   model,
			BaseURL: spec.BaseURL,
			Timeout: 30 * time.Second,
		}
		if spec.Dimension > 0 {
			dim := spec.Dimension
			cfg.Dimensions = &dim
		}
		embedder, err := openaiembed.NewEmbedder(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("创建 OpenAI Embedder 失败: %w", err)
		}
		return embedder, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", spec.Provider)
	}
}
