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

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构体
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	RAG        RAGConfig        `mapstructure:"rag"`
	Model      ModelConfig      `mapstructure:"model"`
	Log        LogConfig        `mapstructure:"log"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// APIConfig API 服务配置
type APIConfig struct {
	Port       int              `mapstructure:"port"`
	Host       string           `mapstructure:"host"`
	Timeout    string           `mapstructure:"timeout"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Middleware MiddlewareConfig `mapstructure:"middleware"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	Enable       bool     `mapstructure:"enable"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// MiddlewareConfig 中间件配置
type MiddlewareConfig struct {
	RateLimit    bool `mapstructure:"rate_limit"`
	RateLimitRPS int  `mapstructure:"rate_limit_rps"`
}

// RAGConfig RAG 路由配置：启用的向量库列表（有序）、索引名与各后端连接参数
type RAGConfig struct {
	// IndexName 各后端共用的索引/集合名；空则默认 "default"
	IndexName string `mapstructure:"index_name"`
	// VectorStores 启用的后端标识（milvus | redis），按配置顺序依次调用
	VectorStores []string     `mapstructure:"vector_stores"`
	TopK         int          `mapstructure:"top_k"`
	Milvus       MilvusConfig `mapstructure:"milvus"`
	Redis        RedisConfig  `mapstructure:"redis"`
}

// MilvusConfig 自建 Milvus 连接配置（host/port）
type MilvusConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Address 返回 host:port 形式的连接地址
func (c MilvusConfig) Address() string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port <= 0 {
		port = 19530
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// RedisConfig 托管 Redis Stack 连接配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// ModelConfig 模型配置（LLM 生成 + Embedding 向量化）
type ModelConfig struct {
	LLM       ModelSpec `mapstructure:"llm"`
	Embedding ModelSpec `mapstructure:"embedding"`
}

// ModelSpec 单个模型的 provider 配置；APIKey 支持 ${ENV_VAR} 占位
type ModelSpec struct {
	Provider  string `mapstructure:"provider"` // openai | 任意 OpenAI 兼容端点
	Name      string `mapstructure:"name"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Dimension int    `mapstructure:"dimension"` // 仅 embedding 使用
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MonitoringConfig 可观测性配置
type MonitoringConfig struct {
	Metrics      bool   `mapstructure:"metrics"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

// LoadConfig 从指定路径加载配置
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("无法读取配置文件: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}

	if err := replaceEnvVars(&config); err != nil {
		return nil, err
	}
	applyDefaults(&config)

	return &config, nil
}

// LoadAPIConfig 加载 API 配置（configs/api.yaml）
func LoadAPIConfig() (*Config, error) {
	return LoadConfig("configs/api.yaml")
}

// replaceEnvVars 替换配置中的 ${ENV_VAR} 占位（模型 API Key）
func replaceEnvVars(config *Config) error {
	config.Model.LLM.APIKey = expandEnv(config.Model.LLM.APIKey)
	config.Model.Embedding.APIKey = expandEnv(config.Model.Embedding.APIKey)
	return nil
}

func expandEnv(v string) string {
	if strings.HasPrefix(v, "$") {
		envVar := strings.TrimPrefix(strings.TrimSuffix(v, "}"), "${")
		if val := os.Getenv(envVar); val != "" {
			return val
		}
	}
	return v
}

// applyDefaults 填充缺省值，避免调用方重复判空
func applyDefaults(config *Config) {
	if config.RAG.IndexName == "" {
		config.RAG.IndexName = "default"
	}
	if config.RAG.TopK <= 0 {
		config.RAG.TopK = 10
	}
	if config.API.Port <= 0 {
		config.API.Port = 8080
	}
	if config.Monitoring.ServiceName == "" {
		config.Monitoring.ServiceName = "rag-gateway"
	}
}

// EnabledBackends 返回启用的后端列表（保序去重，剔除空串）
func (c *Config) EnabledBackends() []string {
	seen := make(map[string]bool, len(c.RAG.VectorStores))
	out := make([]string, 0, len(c.RAG.VectorStores))
	for _, name := range c.RAG.VectorStores {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
