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

package ingest

import (
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	pkgerrors "rag-gateway/pkg/errors"
)

// Document 向量化请求中的单篇文档（已加载的纯文本，无本地解析/切片）
type Document struct {
	ID       string            `json:"id,omitempty"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ToSchemaDocuments 将请求文档转为 eino schema.Document；ID 缺省时生成。
// 空 content 视为无效输入。
func ToSchemaDocuments(docs []Document) ([]*schema.Document, error) {
	out := make([]*schema.Document, 0, len(docs))
	for i, doc := range docs {
		if doc.Content == "" {
			return nil, pkgerrors.Wrapf(pkgerrors.ErrInvalidArg, "document %d: content is empty", i)
		}
		id := doc.ID
		if id == "" {
			id = uuid.NewString()
		}
		meta := make(map[string]any, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		meta["content"] = doc.Content
		out = append(out, &schema.Document{
			ID:       id,
			Content:  doc.Content,
			MetaData: meta,
		})
	}
	return out, nil
}
