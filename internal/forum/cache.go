package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/foro/pkg/cache"
)

// headerCache はキャッシュの利用結果を示すレスポンスヘッダー。
const headerCache = "X-Cache"

// serveCached はキャッシュがあればそれを返し、なければloadの結果をJSONで返して保存する。
// loadがエラーを返した場合は保存しない。
func (s *Server) serveCached(c *gin.Context, load func(ctx context.Context) (any, error)) {
	key := cache.Key(c.Request.Method, c.Request.URL.Path, c.Request.URL.Query())
	if entry, ok := s.cache.Get(key); ok {
		c.Header(headerCache, "HIT")
		c.Data(entry.Status, gin.MIMEJSON+"; charset=utf-8", entry.Body)
		return
	}

	// 読み込み中に書き込みでPurgeされた場合、読み込んだ結果は古い可能性があるため格納しない
	gen := s.cache.Generation()
	v, err := load(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		_ = c.Error(fmt.Errorf("レスポンスのシリアライズに失敗: %w", err))
		return
	}

	s.cache.SetIfGeneration(key, gen, cache.Entry{Status: http.StatusOK, Body: body})
	if s.cache.Enabled() {
		c.Header(headerCache, "MISS")
	}
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", body)
}

// invalidateCache は書き込み後にキャッシュをすべて破棄する。
func (s *Server) invalidateCache() {
	s.cache.Purge()
}
