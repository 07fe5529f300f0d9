package forum

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/foro/internal/config"
	forumdb "github.com/nao1215/foro/internal/forum/db"
	"github.com/nao1215/foro/pkg/cache"
	"github.com/nao1215/foro/pkg/event"
	"github.com/nao1215/foro/pkg/httpclient"
	"github.com/nao1215/foro/pkg/middleware"
	"github.com/nao1215/foro/pkg/token"
)

// serviceName はヘルスチェックで返すサービス名。
const serviceName = "foro"

// Server は掲示板APIのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// cfg はサーバー設定。
	cfg *config.Config
	// queries はデータベースのクエリ実行オブジェクト。
	queries *forumdb.Queries
	// tokens はBearerトークンの発行と検証を行う。
	tokens *token.Service
	// cache は読み取りAPIのレスポンスキャッシュ。
	cache *cache.Cache
	// publisher はドメインイベントの送信先。
	publisher event.Publisher
	logger    *zap.Logger
	now       func() time.Time
	// bcryptCost はパスワードハッシュのコスト。
	bcryptCost int
	// dummyHash は存在しないユーザーのログイン時に比較するハッシュ。
	dummyHash []byte
}

// Option はServerの生成時の設定を変更する。
type Option func(*Server)

// WithClock は現在時刻の取得関数を差し替える。トークンの発行時刻とトピックの作成日時に使う。
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithPublisher はイベントの送信先を差し替える。
func WithPublisher(p event.Publisher) Option {
	return func(s *Server) {
		s.publisher = p
	}
}

// WithBcryptCost はパスワードハッシュのコストを変更する。
func WithBcryptCost(cost int) Option {
	return func(s *Server) {
		s.bcryptCost = cost
	}
}

// NewServer は新しい掲示板サーバーを生成する。
// connはマイグレーション適用済みであること。
func NewServer(cfg *config.Config, conn *sqlx.DB, logger *zap.Logger, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:        cfg,
		queries:    forumdb.New(conn),
		logger:     logger,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	dummyHash, err := bcrypt.GenerateFromPassword([]byte("foro-dummy-password"), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードハッシュの初期化に失敗: %w", err)
	}
	s.dummyHash = dummyHash

	tokens, err := token.New([]byte(cfg.JWT.Secret), cfg.JWT.TTL, token.WithClock(s.now))
	if err != nil {
		return nil, fmt.Errorf("トークンサービスの初期化に失敗: %w", err)
	}
	s.tokens = tokens

	if cfg.Cache.Enabled {
		s.cache = cache.New(cfg.Cache.Size, cfg.Cache.TTL)
	} else {
		s.cache = cache.New(0, 0)
	}

	if s.publisher == nil {
		if cfg.Events.URL != "" {
			client := httpclient.New(cfg.Events.URL, httpclient.WithTimeout(cfg.Events.Timeout))
			s.publisher = event.NewHTTPPublisher(client, logger)
		} else {
			s.publisher = event.NewLogPublisher(logger)
		}
	}

	s.router = gin.New()
	s.setupRoutes()
	return s, nil
}

// Handler はルーティング済みのhttp.Handlerを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされたらグレースフルシャットダウンする。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTPサーバーを起動します", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("HTTPサーバーを停止します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	// 送信中のイベントを待ってから終了する
	s.Close()
	if err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	return nil
}

// Close は送信中のイベントの完了を待つ。
func (s *Server) Close() {
	s.publisher.Close()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	gate := middleware.NewGate(s.tokens, middleware.DefaultPublicPrefixes...)

	s.router.Use(
		middleware.RequestID(),
		middleware.Logger(s.logger),
		middleware.Recovery(s.logger),
		middleware.ErrorHandler(s.logger),
		middleware.CORS(s.cfg.CORS.AllowedOrigins),
		gate.Middleware(),
	)

	auth := s.router.Group("/auth")
	{
		// 公開
		auth.POST("/register", s.handleRegister())
		auth.POST("/login", s.handleLogin())
		// 認証必須
		auth.GET("/topicos/buscar", s.handleFindByTitleAndAuthor())
	}

	topicos := s.router.Group("/topicos")
	{
		topicos.POST("", s.handleCreateTopic())
		topicos.GET("", s.handleListTopics())
		topicos.GET("/search", s.handleSearchTopics())
		topicos.GET("/advanced-search", s.handleAdvancedSearch())
		topicos.GET("/curso/:curso", s.handleListByCourse())
		topicos.GET("/autor/:autor", s.handleListByAuthor())
		topicos.GET("/:id", s.handleGetTopic())
		topicos.PUT("/:id", s.handleUpdateTopic())
		topicos.DELETE("/:id", s.handleDeleteTopic())
	}

	s.router.GET("/test/hello", s.handleText("API funcionando correctamente"))
	s.router.GET("/test/status", s.handleText("Sistema operativo"))
	s.router.GET("/api/v1/test/hello", s.handleText("API funcionando correctamente"))

	// ヘルスチェック
	s.router.GET("/health", s.handleHealth())

	s.setupDocsRoutes()
}

// handleHealth はデータベースの疎通を含むヘルスチェックを返す。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.queries.Ping(c.Request.Context()); err != nil {
			s.logger.Warn("データベースの疎通確認に失敗", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": serviceName})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	}
}

// handleText は固定の文言を返すハンドラーを返す。
func (s *Server) handleText(text string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, text)
	}
}
