package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/foro/pkg/apperror"
)

// ErrorHandler はハンドラーが c.Error で登録したエラーをレスポンスに変換するGinミドルウェアを返す。
// クライアント起因のエラーはWARN、内部エラーはERRORで詳細をログに出力する。
// 内部エラーの原因はクライアントに返さない。
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		appErr := apperror.From(c.Errors.Last().Err)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("kind", appErr.Kind.String()),
			zap.Error(appErr),
		}
		if appErr.IsClientError() {
			logger.Warn("リクエストを処理できませんでした", fields...)
		} else {
			logger.Error("内部エラーが発生しました", fields...)
		}

		if c.Writer.Written() {
			return
		}
		writeError(c, appErr)
	}
}

// writeError はエラーレスポンス本文を書き込む。
func writeError(c *gin.Context, appErr *apperror.Error) {
	resp := appErr.ToResponse(c.Request.URL.Path, time.Now())
	c.JSON(resp.Codigo, resp)
}
