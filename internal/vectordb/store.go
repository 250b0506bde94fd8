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

// Package vectordb 将文档写入与检索请求分发到已配置的向量库后端。
// 每个后端的 client 与索引构造完全委托给 eino-ext 组件。
package vectordb

import (
	"context"
	"time"

	einoindexer "github.com/cloudwego/eino/components/indexer"
	einoretriever "github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	"rag-gateway/pkg/metrics"
	"rag-gateway/pkg/utils"
)

// 支持的后端标识
const (
	BackendMilvus = "milvus"
	BackendRedis  = "redis"
)

// Backend 单个向量库后端：文档写入 + 检索问答
type Backend interface {
	Name() string
	// Vectorize 将文档批次写入后端索引（嵌入由底层组件完成）
	Vectorize(ctx context.Context, docs []*schema.Document) error
	// Query 对 prompt 做相似检索并合成回答
	Query(ctx context.Context, prompt string) (*BackendResponse, error)
}

// AnswerGenerator 基于检索结果合成回答（由 pipeline/query 提供实现）
type AnswerGenerator interface {
	Generate(ctx context.Context, prompt string, docs []*schema.Document) (string, error)
}

// BackendResponse 单后端问答结果，JSON 字段与对外 API 保持一致
type BackendResponse struct {
	VectorStore string  `json:"vector_store"`
	Response    string  `json:"response"`
	Elapsed     float64 `json:"elapsed"`
}

// einoBackend 用 eino Indexer/Retriever 组合出的通用后端实现
type einoBackend struct {
	name      string
	indexer   einoindexer.Indexer
	retriever einoretriever.Retriever
	generator AnswerGenerator
}

var _ Backend = (*einoBackend)(nil)

func (b *einoBackend) Name() string {
	return b.name
}

// Vectorize 实现 Backend；错误原样上抛
func (b *einoBackend) Vectorize(ctx context.Context, docs []*schema.Document) error {
	start := time.Now()
	_, err := b.indexer.Store(ctx, docs)
	if err != nil {
		metrics.BackendErrorTotal.WithLabelValues(b.name, "vectorize").Inc()
		return err
	}
	metrics.VectorizeDuration.WithLabelValues(b.name).Observe(utils.ElapsedSeconds(start))
	metrics.VectorizeDocsTotal.WithLabelValues(b.name).Add(float64(len(docs)))
	return nil
}

// Query 实现 Backend：检索 top-K 后用共享生成器合成回答
func (b *einoBackend) Query(ctx context.Context, prompt string) (*BackendResponse, error) {
	start := time.Now()
	docs, err := b.retriever.Retrieve(ctx, prompt)
	if err != nil {
		metrics.BackendErrorTotal.WithLabelValues(b.name, "query").Inc()
		return nil, err
	}
	answer, err := b.generator.Generate(ctx, prompt, docs)
	if err != nil {
		metrics.BackendErrorTotal.WithLabelValues(b.name, "query").Inc()
		return nil, err
	}
	elapsed := utils.ElapsedSeconds(start)
	metrics.QueryDuration.WithLabelValues(b.name).Observe(elapsed)
	return &BackendResponse{
		VectorStore: b.name,
		Response:    answer,
		Elapsed:     elapsed,
	}, nil
}
