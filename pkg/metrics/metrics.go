package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// 全局 Registry，供 API 注册与暴露
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		RequestDuration, RequestTotal,
		VectorizeDuration, VectorizeDocsTotal,
		QueryDuration, BackendErrorTotal,
	)
}

// RequestDuration HTTP 请求耗时（秒）
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gateway_request_duration_seconds",
		Help:    "HTTP 请求耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route"},
)

// RequestTotal HTTP 请求总数（按路由与状态）
var RequestTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gateway_request_total",
		Help: "HTTP 请求总数",
	},
	[]string{"route", "status"},
)

// VectorizeDuration 单后端 vectorize 耗时（秒）
var VectorizeDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gateway_vectorize_duration_seconds",
		Help:    "单后端文档向量化耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"backend"},
)

// VectorizeDocsTotal 写入各后端的文档总数
var VectorizeDocsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gateway_vectorize_docs_total",
		Help: "写入各后端的文档总数",
	},
	[]string{"backend"},
)

// QueryDuration 单后端 query 耗时（秒）
var QueryDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gateway_query_duration_seconds",
		Help:    "单后端检索 + 生成耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"backend"},
)

// BackendErrorTotal 后端调用失败总数
var BackendErrorTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gateway_backend_error_total",
		Help: "后端调用失败总数",
	},
	[]string{"backend", "op"}, // op: vectorize | query
)

// WritePrometheus 将 Prometheus 文本格式写入 w（供 Hertz 路由复用）
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
