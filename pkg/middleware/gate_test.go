package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/nao1215/foro/pkg/apperror"
	"github.com/nao1215/foro/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testSecret はテスト用のトークン署名鍵。
const testSecret = "test-secret-key-for-unit-tests-0123456789abcdef"

func newTestTokenService(t *testing.T) *token.Service {
	t.Helper()

	svc, err := token.New([]byte(testSecret), token.DefaultTTL)
	if err != nil {
		t.Fatalf("token.New()でエラーが発生: %v", err)
	}
	return svc
}

// newGateRouter はErrorHandlerとGateを適用したルーターを返す。
// handlerCalledは保護されたハンドラーが実行されたかを記録する。
func newGateRouter(t *testing.T, handlerCalled *bool) *gin.Engine {
	t.Helper()

	router := gin.New()
	router.Use(ErrorHandler(zap.NewNop()))
	router.Use(NewGate(newTestTokenService(t)).Middleware())
	router.GET("/topicos", func(c *gin.Context) {
		*handlerCalled = true
		c.JSON(http.StatusOK, gin.H{"username": CurrentUser(c)})
	})
	router.POST("/auth/login", func(c *gin.Context) {
		*handlerCalled = true
		c.JSON(http.StatusOK, gin.H{"username": CurrentUser(c)})
	})
	return router
}

// TestGateIsPublic は公開パスの判定を検証する。
func TestGateIsPublic(t *testing.T) {
	t.Parallel()

	gate := NewGate(nil)
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{method: http.MethodPost, path: "/auth/login", want: true},
		{method: http.MethodPost, path: "/auth/register", want: true},
		{method: http.MethodPost, path: "/AUTH/LOGIN", want: true},
		{method: http.MethodGet, path: "/v3/api-docs", want: true},
		{method: http.MethodGet, path: "/swagger-ui/index.html", want: true},
		{method: http.MethodGet, path: "/swagger-ui.html", want: true},
		{method: http.MethodGet, path: "/health", want: true},
		{method: http.MethodGet, path: "/favicon.ico", want: true},
		{method: http.MethodGet, path: "/topicos", want: false},
		{method: http.MethodGet, path: "/auth/topicos/buscar", want: false},
		{method: http.MethodGet, path: "/test/hello", want: false},
		{method: http.MethodOptions, path: "/topicos", want: true},
	}

	for _, tt := range tests {
		if got := gate.IsPublic(tt.method, tt.path); got != tt.want {
			t.Errorf("IsPublic(%q, %q) = %v, want %v", tt.method, tt.path, got, tt.want)
		}
	}
}

// TestGateMiddleware は認証ゲートを検証する。
func TestGateMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("有効なトークンでハンドラーが実行されユーザー名が設定されること", func(t *testing.T) {
		t.Parallel()

		tokenStr, err := newTestTokenService(t).Issue("alice")
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}

		handlerCalled := false
		router := newGateRouter(t, &handlerCalled)

		req := httptest.NewRequest(http.MethodGet, "/topicos", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if !handlerCalled {
			t.Fatal("有効なトークンでハンドラーが呼ばれるべき")
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスボディのパースに失敗: %v", err)
		}
		if body["username"] != "alice" {
			t.Errorf("username = %q, want %q", body["username"], "alice")
		}
	})

	t.Run("公開パスはトークンなしで通過し匿名であること", func(t *testing.T) {
		t.Parallel()

		handlerCalled := false
		router := newGateRouter(t, &handlerCalled)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if !handlerCalled {
			t.Fatal("公開パスでハンドラーが呼ばれるべき")
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスボディのパースに失敗: %v", err)
		}
		if body["username"] != "" {
			t.Errorf("username = %q, want empty string", body["username"])
		}
	})

	expired := func(t *testing.T) string {
		t.Helper()
		claims := jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		}
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("トークンの署名に失敗: %v", err)
		}
		return "Bearer " + s
	}

	failures := []struct {
		name   string
		header func(t *testing.T) string
	}{
		{name: "Authorizationヘッダーが無い場合", header: func(_ *testing.T) string { return "" }},
		{name: "Bearer接頭辞が無い場合", header: func(t *testing.T) string {
			s, _ := newTestTokenService(t).Issue("alice")
			return s
		}},
		{name: "Bearerのみでトークンが空の場合", header: func(_ *testing.T) string { return "Bearer " }},
		{name: "形式不正なトークンの場合", header: func(_ *testing.T) string { return "Bearer invalid-token-string" }},
		{name: "期限切れトークンの場合", header: expired},
	}

	var firstDescription string
	for _, tt := range failures {
		t.Run(tt.name+"に401が返りハンドラーが実行されないこと", func(t *testing.T) {
			handlerCalled := false
			router := newGateRouter(t, &handlerCalled)

			req := httptest.NewRequest(http.MethodGet, "/topicos", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if handlerCalled {
				t.Error("認証失敗時にハンドラーが呼ばれるべきではない")
			}

			var body apperror.Response
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("レスポンスボディのパースに失敗: %v", err)
			}
			if body.Codigo != http.StatusUnauthorized {
				t.Errorf("codigo = %d, want %d", body.Codigo, http.StatusUnauthorized)
			}
			if body.Path != "/topicos" {
				t.Errorf("path = %q, want %q", body.Path, "/topicos")
			}
			// 失敗理由によらず説明は同一であること
			if firstDescription == "" {
				firstDescription = body.Descripcion
			} else if body.Descripcion != firstDescription {
				t.Errorf("descripcion = %q, want %q", body.Descripcion, firstDescription)
			}
		})
	}

	t.Run("異なる鍵で署名されたトークンで401が返ること", func(t *testing.T) {
		t.Parallel()

		other, err := token.New([]byte("another-secret-key-which-is-long-enough-000"), token.DefaultTTL)
		if err != nil {
			t.Fatalf("token.New()でエラーが発生: %v", err)
		}
		tokenStr, err := other.Issue("mallory")
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}

		handlerCalled := false
		router := newGateRouter(t, &handlerCalled)

		req := httptest.NewRequest(http.MethodGet, "/topicos", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
		if handlerCalled {
			t.Error("認証失敗時にハンドラーが呼ばれるべきではない")
		}
	})

	t.Run("リクエストのcontext.Contextからユーザー名を取得できること", func(t *testing.T) {
		t.Parallel()

		tokenStr, err := newTestTokenService(t).Issue("bob")
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}

		var got string
		var ok bool
		router := gin.New()
		router.Use(NewGate(newTestTokenService(t)).Middleware())
		router.GET("/topicos", func(c *gin.Context) {
			got, ok = UsernameFromContext(c.Request.Context())
			c.Status(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodGet, "/topicos", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		router.ServeHTTP(httptest.NewRecorder(), req)

		if !ok || got != "bob" {
			t.Errorf("UsernameFromContext() = (%q, %v), want (%q, true)", got, ok, "bob")
		}
	})
}

// TestCurrentUser はCurrentUser関数を検証する。
func TestCurrentUser(t *testing.T) {
	t.Parallel()

	t.Run("コンテキストにusernameが設定されている場合に取得できること", func(t *testing.T) {
		t.Parallel()

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("username", "alice")

		if got := CurrentUser(c); got != "alice" {
			t.Errorf("CurrentUser() = %q, want %q", got, "alice")
		}
	})

	t.Run("コンテキストにusernameが設定されていない場合に空文字列が返ること", func(t *testing.T) {
		t.Parallel()

		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		if got := CurrentUser(c); got != "" {
			t.Errorf("CurrentUser() = %q, want empty string", got)
		}
	})

	t.Run("usernameが文字列以外の型の場合に空文字列が返ること", func(t *testing.T) {
		t.Parallel()

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("username", 12345)

		if got := CurrentUser(c); got != "" {
			t.Errorf("CurrentUser() = %q, want empty string", got)
		}
	})
}
