package logger

import (
	"Shutter/internal/api/config"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// accessLog 字段与 logstash 索引模板一致
type accessLog struct {
	Time        string `json:"time"`
	Level       string `json:"level"`
	Msg         string `json:"msg"`
	TraceID     string `json:"trace_id"`
	LogToken    string `json:"log_token,omitempty"`
	TargetIndex string `json:"target_index,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Status      int    `json:"status"`
	Latency     string `json:"latency"`
	BodySize    int    `json:"body_size"`
	Error       string `json:"error,omitempty"`
}

// SetupGin 访问日志写入 LogWriter；进度 websocket 长连接的时延没有意义，单独标记
func SetupGin(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		SkipPaths: []string{"/healthz"},
		Formatter: formatAccessLog,
	}))
	r.Use(gin.Recovery())
}

func formatAccessLog(p gin.LogFormatterParams) string {
	entry := accessLog{
		Time:     p.TimeStamp.Format(time.RFC3339),
		Level:    "INFO",
		Msg:      "GIN_ACCESS",
		Method:   p.Method,
		Path:     p.Path,
		Status:   p.StatusCode,
		Latency:  p.Latency.String(),
		BodySize: p.BodySize,
		Error:    p.ErrorMessage,
	}
	if id, ok := p.Keys[TraceIDKey].(string); ok {
		entry.TraceID = id
	}
	if entry.TraceID == "" && p.Request != nil {
		entry.TraceID = TraceID(p.Request.Context())
	}
	if p.Request != nil && p.Request.Header.Get("Upgrade") == "websocket" {
		entry.Msg = "GIN_WS_CLOSED"
	}
	if p.StatusCode >= 500 {
		entry.Level = "ERROR"
	}
	if cfg := config.Cfg; cfg != nil {
		entry.LogToken = cfg.Logstash.Token
		entry.TargetIndex = cfg.Logstash.Index
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return ""
	}
	return string(b) + "\n"
}
