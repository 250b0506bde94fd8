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
	"fmt"
	"strconv"

	redisindexer "github.com/cloudwego/eino-ext/components/indexer/redis"
	redisretriever "github.com/cloudwego/eino-ext/components/retriever/redis"
	einoembed "github.com/cloudwego/eino/components/embedding"
	"github.com/redis/go-redis/v9"

	"rag-gateway/pkg/config"
)

const defaultBatchSize = 100

// redisOptions 从 RedisConfig 构造 redis.Options
func redisOptions(cfg config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       0,
	}
	if cfg.Addr == "" {
		opts.Addr = "localhost:6379"
	}
	if cfg.DB != "" {
		db, err := strconv.Atoi(cfg.DB)
		if err == nil && db >= 0 {
			opts.DB = db
		}
	}
	// Redis Stack 向量检索需 Protocol 2、UnstableResp3 true（见 eino-ext retriever 注释）
	opts.Protocol = 2
	opts.UnstableResp3 = true
	return opts
}

// NewRedisBackend 连接托管 Redis Stack 并构造 eino-ext indexer/retriever。
// indexName 作为 key 前缀与检索索引名。
func NewRedisBackend(ctx context.Context, cfg config.RedisConfig, indexName string, topK int, embedder einoembed.Embedder, generator AnswerGenerator) (Backend, error) {
	client := redis.NewClient(redisOptions(cfg))
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	idx, err := redisindexer.NewIndexer(ctx, &redisindexer.IndexerConfig{
		Client:    client,
		KeyPrefix: indexName,
		BatchSize: defaultBatchSize,
		Embedding: embedder,
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis indexer: %w", err)
	}

	ret, err := redisretriever.NewRetriever(ctx, &redisretriever.RetrieverConfig{
		Client:    client,
		Index:     indexName,
		TopK:      topK,
		Embedding: embedder,
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis retriever: %w", err)
	}

	return &einoBackend{
		name:      BackendRedis,
		indexer:   idx,
		retriever: ret,
		generator: generator,
	}, nil
}
