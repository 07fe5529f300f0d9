package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger はリクエストごとのアクセスログを出力するGinミドルウェアを返す。
// ハンドラーが直接書き込んだ4xxはWARN、5xxはERRORで記録する。
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("username", CurrentUser(c)),
			zap.String("client_ip", c.ClientIP()),
		}

		// c.Errorsで返したエラーはErrorHandlerが記録済みのため、アクセスログはINFOに留める
		handled := len(c.Errors) > 0
		switch {
		case handled:
			logger.Info("リクエスト完了", fields...)
		case status >= http.StatusInternalServerError:
			logger.Error("リクエスト完了", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("リクエスト完了", fields...)
		default:
			logger.Info("リクエスト完了", fields...)
		}
	}
}
