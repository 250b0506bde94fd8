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

	milvusindexer "github.com/cloudwego/eino-ext/components/indexer/milvus"
	milvusretriever "github.com/cloudwego/eino-ext/components/retriever/milvus"
	einoembed "github.com/cloudwego/eino/components/embedding"
	"github.com/milvus-io/milvus-sdk-go/v2/client"

	"rag-gateway/pkg/config"
)

// NewMilvusBackend 连接自建 Milvus（host:port）并构造 eino-ext indexer/retriever。
// collection 不存在时由 indexer 组件按需创建。
func NewMilvusBackend(ctx context.Context, cfg config.MilvusConfig, indexName string, topK int, embedder einoembed.Embedder, generator AnswerGenerator) (Backend, error) {
	cli, err := client.NewClient(ctx, client.Config{
		Address: cfg.Address(),
	})
	if err != nil {
		return nil, fmt.Errorf("milvus connect %s: %w", cfg.Address(), err)
	}

	idx, err := milvusindexer.NewIndexer(ctx, &milvusindexer.IndexerConfig{
		Client:     cli,
		Collection: indexName,
		Embedding:  embedder,
	})
	if err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("milvus indexer: %w", err)
	}

	ret, err := milvusretriever.NewRetriever(ctx, &milvusretriever.RetrieverConfig{
		Client:     cli,
		Collection: indexName,
		TopK:       topK,
		Embedding:  embedder,
	})
	if err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("milvus retriever: %w", err)
	}

	return &einoBackend{
		name:      BackendMilvus,
		indexer:   idx,
		retriever: ret,
		generator: generator,
	}, nil
}
