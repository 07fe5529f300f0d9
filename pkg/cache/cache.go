// Package cache は読み取りAPIのレスポンスを保持するキャッシュを提供する。
//
// エントリ単位の無効化は行わず、書き込みが発生したらPurgeで全体を破棄する。
package cache

import (
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Entry はキャッシュされたレスポンス。
type Entry struct {
	// Status はHTTPステータスコード。
	Status int
	// Body はシリアライズ済みのレスポンス本文。
	Body []byte
}

// Cache は容量と有効期限付きのレスポンスキャッシュ。
// 無効化されたCache（nil含む）はすべての操作が何もしない。
//
// Purgeのたびに世代が進む。読み込み前に取得した世代をSetIfGenerationに渡すと、
// 読み込み中にPurgeされた古い結果は格納されない。
type Cache struct {
	lru *expirable.LRU[string, Entry]

	// mu は世代の確認と格納、世代の更新と破棄をそれぞれ不可分にする。
	mu  sync.Mutex
	gen uint64
}

// New はキャッシュを生成する。sizeが0以下の場合は無効なキャッシュを返す。
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		return &Cache{}
	}
	return &Cache{lru: expirable.NewLRU[string, Entry](size, nil, ttl)}
}

// Enabled はキャッシュが有効かどうかを返す。
func (c *Cache) Enabled() bool {
	return c != nil && c.lru != nil
}

// Get はキーに対応するエントリを返す。
func (c *Cache) Get(key string) (Entry, bool) {
	if !c.Enabled() {
		return Entry{}, false
	}
	return c.lru.Get(key)
}

// Set はエントリを格納する。Bodyは呼び出し元と共有しないようコピーする。
func (c *Cache) Set(key string, e Entry) {
	if !c.Enabled() {
		return
	}
	e.Body = append([]byte(nil), e.Body...)
	c.lru.Add(key, e)
}

// Generation は現在の世代を返す。
func (c *Cache) Generation() uint64 {
	if !c.Enabled() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfGeneration は世代がgenのままの場合だけエントリを格納する。
// 格納した場合は真を返す。
func (c *Cache) SetIfGeneration(key string, gen uint64, e Entry) bool {
	if !c.Enabled() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	e.Body = append([]byte(nil), e.Body...)
	c.lru.Add(key, e)
	return true
}

// Purge はすべてのエントリを破棄し、世代を進める。
func (c *Cache) Purge() {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
}

// Len は格納中のエントリ数を返す。
func (c *Cache) Len() int {
	if !c.Enabled() {
		return 0
	}
	return c.lru.Len()
}

// Key はメソッド、パス、クエリからキャッシュキーを組み立てる。
// クエリはキー順・値順に正規化するため、パラメータの順序が異なっても同じキーになる。
func Key(method, path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(' ')
	b.WriteString(path)

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sep := byte('?')
	for _, k := range keys {
		values := append([]string(nil), query[k]...)
		sort.Strings(values)
		for _, v := range values {
			b.WriteByte(sep)
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
			sep = '&'
		}
	}
	return b.String()
}
