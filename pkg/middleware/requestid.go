package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID はリクエストIDを伝播するHTTPヘッダーキー。
	HeaderRequestID = "X-Request-ID"
	// contextKeyRequestID はGinコンテキストにリクエストIDを格納するキー。
	contextKeyRequestID = "request_id"
)

// RequestID はリクエストごとに一意なIDを割り当てるGinミドルウェアを返す。
// クライアントが有効なUUIDを送った場合はそれを引き継ぐ。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestIDFrom はGinコンテキストからリクエストIDを取得する。
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}
