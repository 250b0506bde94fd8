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
	"time"

	"github.com/cloudwego/eino/schema"

	"rag-gateway/pkg/log"
	"rag-gateway/pkg/utils"
)

// Router 按配置顺序将 vectorize/query 请求依次分发到启用的后端并聚合结果
type Router struct {
	backends []Backend
	logger   *log.Logger
}

// NewRouter 创建 Router；backends 的顺序即调用顺序
func NewRouter(backends []Backend, logger *log.Logger) *Router {
	return &Router{backends: backends, logger: logger.Component("vectordb")}
}

// Backends 返回启用后端的名称（保序）
func (r *Router) Backends() []string {
	names := make([]string, 0, len(r.backends))
	for _, b := range r.backends {
		names = append(names, b.Name())
	}
	return names
}

// QueryResult 聚合后的问答结果，JSON 字段与对外 API 保持一致
type QueryResult struct {
	Prompt    string             `json:"prompt"`
	Responses []*BackendResponse `json:"responses"`
	Processed []string           `json:"vdbs_processed"`
	Elapsed   float64            `json:"elapsed"`
}

// Vectorize 将文档批次依次写入每个启用后端，返回处理过的后端名。
// requested 非空时只写入其中列出的后端（仍按配置顺序）；后端失败即中止上抛。
func (r *Router) Vectorize(ctx context.Context, docs []*schema.Document, requested []string) ([]string, error) {
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		want[name] = true
	}

	processed := make([]string, 0, len(r.backends))
	for _, b := range r.backends {
		if len(want) > 0 && !want[b.Name()] {
			continue
		}
		if err := b.Vectorize(ctx, docs); err != nil {
			return processed, err
		}
		processed = append(processed, b.Name())
	}
	r.logger.Info("vectorize 完成", "docs", len(docs), "vdbs_processed", processed)
	return processed, nil
}

// Query 依次查询每个启用后端并聚合回答、耗时与触达的后端列表
func (r *Router) Query(ctx context.Context, prompt string) (*QueryResult, error) {
	start := time.Now()
	responses := make([]*BackendResponse, 0, len(r.backends))
	processed := make([]string, 0, len(r.backends))
	for _, b := range r.backends {
		resp, err := b.Query(ctx, prompt)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
		processed = append(processed, b.Name())
	}
	result := &QueryResult{
		Prompt:    prompt,
		Responses: responses,
		Processed: processed,
		Elapsed:   utils.ElapsedSeconds(start),
	}
	r.logger.Info("query 完成", "vdbs_processed", processed, "elapsed", result.Elapsed)
	return result, nil
}
