package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/biome-stack/internal/logging"
)

// RequestIDHeader - заголовок, через который клиент может передать свой идентификатор запроса
const RequestIDHeader = "X-Request-ID"

// RequestLogger снабжает каждый HTTP-запрос trace-ID и пишет краткие логи
// в логгер компонента API. Пути из quiet пишутся только на уровне DEBUG.
type RequestLogger struct {
	logger *logging.Logger
	quiet  map[string]bool
}

func NewRequestLogger(logger *logging.Logger, quietPaths ...string) *RequestLogger {
	if logger == nil {
		logger = logging.GetAPILogger()
	}
	quiet := make(map[string]bool, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = true
	}
	return &RequestLogger{logger: logger, quiet: quiet}
}

func (rl *RequestLogger) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// trace-id из OpenTelemetry, затем из заголовка клиента, иначе новый UUID
		var traceID string
		span := trace.SpanFromContext(c.Request.Context())
		switch {
		case span.SpanContext().IsValid():
			traceID = span.SpanContext().TraceID().String()
		case c.GetHeader(RequestIDHeader) != "":
			traceID = c.GetHeader(RequestIDHeader)
		default:
			traceID = uuid.NewString()
		}
		c.Set("trace_id", traceID)
		c.Header(RequestIDHeader, traceID)

		start := time.Now()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logf := rl.logger.Info
		if rl.quiet[path] {
			logf = rl.logger.Debug
		}

		logf("[HTTP] ▶ %s %s ip=%s trace=%s", method, c.Request.URL.RequestURI(), c.ClientIP(), traceID)

		c.Next()

		status := c.Writer.Status()
		if status >= 500 {
			logf = rl.logger.Error
		}
		logf("[HTTP] ◀ %s %s %d %s trace=%s", method, path, status, time.Since(start), traceID)
	}
}
