package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/foro/pkg/apperror"
)

// Verifier はベアラートークンを検証し、サブジェクトを返す。
// token.Service が実装する。
type Verifier interface {
	Verify(token string) (string, error)
}

// DefaultPublicPrefixes は認証なしでアクセスできるパスの接頭辞。
var DefaultPublicPrefixes = []string{
	"/auth/login",
	"/auth/register",
	"/v3/api-docs",
	"/swagger-ui",
	"/swagger-ui.html",
	"/swagger-resources",
	"/webjars",
	"/favicon.ico",
	"/health",
}

const (
	// contextKeyUsername はGinコンテキストに認証済みユーザー名を格納するキー。
	contextKeyUsername = "username"
	// bearerPrefix はAuthorizationヘッダーのスキーム接頭辞。
	bearerPrefix = "Bearer "
	// unauthorizedDescription は認証失敗時の説明。失敗理由によらず同一。
	unauthorizedDescription = "Token ausente o inválido"
)

// usernameKey はリクエストのcontext.Contextにユーザー名を格納するキーの型。
type usernameKey struct{}

// Gate はベアラートークンによる認証ゲート。
// 公開パス以外のリクエストは有効なトークンを持たない限りハンドラーに到達しない。
type Gate struct {
	verifier Verifier
	public   []string
}

// NewGate は認証ゲートを生成する。
// publicPrefixesを省略した場合はDefaultPublicPrefixesを使う。
func NewGate(verifier Verifier, publicPrefixes ...string) *Gate {
	if len(publicPrefixes) == 0 {
		publicPrefixes = DefaultPublicPrefixes
	}
	public := make([]string, 0, len(publicPrefixes))
	for _, p := range publicPrefixes {
		public = append(public, strings.ToLower(p))
	}
	return &Gate{verifier: verifier, public: public}
}

// IsPublic はリクエストが認証なしで通過できるかを返す。
// パスは小文字化して比較する。OPTIONSは常に通過する。
func (g *Gate) IsPublic(method, path string) bool {
	if method == http.MethodOptions {
		return true
	}
	lower := strings.ToLower(path)
	for _, p := range g.public {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// Middleware はトークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、Ginコンテキストとリクエストのcontext.Contextにユーザー名を設定する。
// 失敗した場合は認証エラーを登録して処理を中断する。エラーの書き出しはErrorHandlerが行う。
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.IsPublic(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}

		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), bearerPrefix)
		if !found || tokenString == "" {
			abortUnauthorized(c)
			return
		}

		username, err := g.verifier.Verify(tokenString)
		if err != nil || username == "" {
			abortUnauthorized(c)
			return
		}

		c.Set(contextKeyUsername, username)
		c.Request = c.Request.WithContext(WithUsername(c.Request.Context(), username))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	_ = c.Error(apperror.Unauthorized(unauthorizedDescription))
	c.Abort()
}

// CurrentUser はGinコンテキストから認証済みユーザー名を取得する。
// 公開パスでは空文字列を返す。
func CurrentUser(c *gin.Context) string {
	v, ok := c.Get(contextKeyUsername)
	if !ok {
		return ""
	}
	if name, ok := v.(string); ok {
		return name
	}
	return ""
}

// WithUsername はユーザー名を格納したcontext.Contextを返す。
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey{}, username)
}

// UsernameFromContext はcontext.Contextから認証済みユーザー名を取得する。
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey{}).(string)
	return name, ok && name != ""
}
