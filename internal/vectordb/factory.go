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

package vectordb

import (
	"context"

	einoembed "github.com/cloudwego/eino/components/embedding"

	"rag-gateway/pkg/config"
	pkgerrors "rag-gateway/pkg/errors"
)

// BuildBackends 按配置顺序构造启用的后端，名称未知时报 ErrUnknownBackend
func BuildBackends(ctx context.Context, cfg *config.Config, embedder einoembed.Embedder, generator AnswerGenerator) ([]Backend, error) {
	enabled := cfg.EnabledBackends()
	backends := make([]Backend, 0, len(enabled))
	for _, name := range enabled {
		switch name {
		case BackendMilvus:
			b, err := NewMilvusBackend(ctx, cfg.RAG.Milvus, cfg.RAG.IndexName, cfg.RAG.TopK, embedder, generator)
			if err != nil {
				return nil, err
			}
			backends = append(backends, b)
		case BackendRedis:
			b, err := NewRedisBackend(ctx, cfg.RAG.Redis, cfg.RAG.IndexName, cfg.RAG.TopK, embedder, generator)
			if err != nil {
				return nil, err
			}
			backends = append(backends, b)
		default:
			return nil, pkgerrors.Wrapf(pkgerrors.ErrUnknownBackend, "%q", name)
		}
	}
	return backends, nil
}
