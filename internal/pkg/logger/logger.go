// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Init 配置全局 zerolog：Unix 时间戳 + service 字段。
// 各服务在 main 里调用一次。
func Init(serviceName string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zlog.Logger = zerolog.New(os.Stderr).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Ctx 返回 context 中携带的 logger；没有时退回全局 logger。
// handler 层会把带 trace_id 的 logger 放进 context。
func Ctx(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &zlog.Logger
	}
	return l
}

// WithTraceID 把 trace_id 写入一个新的 logger 并塞进 context。
func WithTraceID(ctx context.Context, traceID string) context.Context {
	l := zlog.With().Str("trace_id", traceID).Logger()
	return l.WithContext(ctx)
}
