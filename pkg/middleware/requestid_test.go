package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestRequestID はRequestIDミドルウェアを検証する。
func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("リクエストIDが生成されレスポンスヘッダーに設定されること", func(t *testing.T) {
		t.Parallel()

		var captured string
		router := gin.New()
		router.Use(RequestID())
		router.GET("/health", func(c *gin.Context) {
			captured = RequestIDFrom(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		got := w.Header().Get(HeaderRequestID)
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("X-Request-ID = %q はUUIDであるべき", got)
		}
		if captured != got {
			t.Errorf("コンテキストのリクエストID = %q, want %q", captured, got)
		}
	})

	t.Run("クライアントが送ったUUIDを引き継ぐこと", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(RequestID())
		router.GET("/health", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(HeaderRequestID, id)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get(HeaderRequestID); got != id {
			t.Errorf("X-Request-ID = %q, want %q", got, id)
		}
	})

	t.Run("UUIDでない値は置き換えられること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(RequestID())
		router.GET("/health", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(HeaderRequestID, "<script>")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get(HeaderRequestID); got == "<script>" {
			t.Error("不正なリクエストIDがそのまま返されるべきではない")
		}
	})
}

// TestLoggerFields はLoggerミドルウェアを検証する。
func TestLoggerFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "2xxはINFO", status: http.StatusOK, wantLevel: "info"},
		{name: "4xxはWARN", status: http.StatusNotFound, wantLevel: "warn"},
		{name: "5xxはERROR", status: http.StatusInternalServerError, wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zap.DebugLevel)
			router := gin.New()
			router.Use(RequestID(), Logger(zap.New(core)))
			router.GET("/topicos", func(c *gin.Context) {
				c.Set("username", "alice")
				c.Status(tt.status)
			})

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/topicos", nil))

			if logs.Len() != 1 {
				t.Fatalf("ログ件数 = %d, want 1", logs.Len())
			}
			entry := logs.All()[0]
			if entry.Level.String() != tt.wantLevel {
				t.Errorf("ログレベル = %v, want %v", entry.Level, tt.wantLevel)
			}
			fields := entry.ContextMap()
			if fields["path"] != "/topicos" {
				t.Errorf("path = %v, want %q", fields["path"], "/topicos")
			}
			if fields["status"] != int64(tt.status) {
				t.Errorf("status = %v, want %d", fields["status"], tt.status)
			}
			if fields["username"] != "alice" {
				t.Errorf("username = %v, want %q", fields["username"], "alice")
			}
			if fields["request_id"] == "" {
				t.Error("request_idが出力されるべき")
			}
		})
	}
}
