package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKey はテスト用の署名鍵（64バイト）。
var testKey = []byte("test-signing-key-0123456789-abcdefghijklmnopqrstuvwxyz-ABCDEFGH")

// fixedClock は指定時刻を返す差し替え可能な時計。
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func newTestService(t *testing.T, clock *fixedClock) *Service {
	t.Helper()

	svc, err := New(testKey, DefaultTTL, WithClock(clock.now))
	require.NoError(t, err)
	return svc
}

// TestNew はNew関数を検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("256ビット未満の鍵はエラーになること", func(t *testing.T) {
		t.Parallel()

		_, err := New([]byte("short"), DefaultTTL)
		assert.ErrorIs(t, err, ErrKeyTooShort)
	})

	t.Run("有効期間が0以下の場合はエラーになること", func(t *testing.T) {
		t.Parallel()

		_, err := New(testKey, 0)
		assert.Error(t, err)
	})

	t.Run("呼び出し元の鍵スライスを変更しても影響を受けないこと", func(t *testing.T) {
		t.Parallel()

		key := append([]byte(nil), testKey...)
		svc, err := New(key, DefaultTTL)
		require.NoError(t, err)

		tok, err := svc.Issue("alice")
		require.NoError(t, err)

		key[0] ^= 0xff
		sub, err := svc.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, "alice", sub)
	})
}

// TestIssueAndVerify はトークンの発行と検証の往復を検証する。
func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	t.Run("発行直後のトークンからsubjectを取り出せること", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, &fixedClock{t: time.Now()})
		for _, sub := range []string{"alice", "user.name-01", "ユーザー"} {
			tok, err := svc.Issue(sub)
			require.NoError(t, err)

			got, err := svc.Verify(tok)
			require.NoError(t, err)
			assert.Equal(t, sub, got)
		}
	})

	t.Run("空のsubjectでは発行できないこと", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, &fixedClock{t: time.Now()})
		_, err := svc.Issue("")
		assert.ErrorIs(t, err, ErrEmptySubject)
	})

	t.Run("署名アルゴリズムがHS512であること", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, &fixedClock{t: time.Now()})
		tok, err := svc.Issue("alice")
		require.NoError(t, err)

		parsed, _, err := jwt.NewParser().ParseUnverified(tok, &jwt.RegisteredClaims{})
		require.NoError(t, err)
		assert.Equal(t, "HS512", parsed.Method.Alg())
	})

	t.Run("有効期限が発行時刻の24時間後であること", func(t *testing.T) {
		t.Parallel()

		issuedAt := time.Date(2025, 7, 16, 10, 30, 0, 0, time.UTC)
		svc := newTestService(t, &fixedClock{t: issuedAt})
		tok, err := svc.Issue("alice")
		require.NoError(t, err)

		claims := &jwt.RegisteredClaims{}
		_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
		require.NoError(t, err)
		assert.True(t, claims.ExpiresAt.Time.Equal(issuedAt.Add(24*time.Hour)))
		assert.True(t, claims.IssuedAt.Time.Equal(issuedAt))
	})
}

// TestVerifyExpiry は有効期限の境界を検証する。
func TestVerifyExpiry(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 7, 16, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr bool
	}{
		{name: "TTLの1秒前は有効", elapsed: DefaultTTL - time.Second, wantErr: false},
		{name: "TTLちょうどは無効", elapsed: DefaultTTL, wantErr: true},
		{name: "TTLの1秒後は無効", elapsed: DefaultTTL + time.Second, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clock := &fixedClock{t: issuedAt}
			svc := newTestService(t, clock)
			tok, err := svc.Issue("alice")
			require.NoError(t, err)

			clock.t = issuedAt.Add(tt.elapsed)
			sub, err := svc.Verify(tok)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				assert.Empty(t, sub)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", sub)
		})
	}
}

// TestVerifyRejects は不正なトークンが一律ErrInvalidになることを検証する。
func TestVerifyRejects(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("異なる鍵で署名されたトークンは無効であること", func(t *testing.T) {
		t.Parallel()

		other, err := New([]byte(strings.Repeat("x", 64)), DefaultTTL)
		require.NoError(t, err)
		tok, err := other.Issue("alice")
		require.NoError(t, err)

		svc := newTestService(t, &fixedClock{t: now})
		_, err = svc.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("形式不正な文字列は無効であること", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, &fixedClock{t: now})
		for _, s := range []string{"", "garbage", "a.b.c", "Bearer x"} {
			_, err := svc.Verify(s)
			assert.ErrorIs(t, err, ErrInvalid, "input=%q", s)
		}
	})

	t.Run("HS256で署名されたトークンは同じ鍵でも無効であること", func(t *testing.T) {
		t.Parallel()

		claims := jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
		require.NoError(t, err)

		svc := newTestService(t, &fixedClock{t: now})
		_, err = svc.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("有効期限のないトークンは無効であること", func(t *testing.T) {
		t.Parallel()

		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "alice"}).SignedString(testKey)
		require.NoError(t, err)

		svc := newTestService(t, &fixedClock{t: now})
		_, err = svc.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("subjectが空のトークンは無効であること", func(t *testing.T) {
		t.Parallel()

		claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testKey)
		require.NoError(t, err)

		svc := newTestService(t, &fixedClock{t: now})
		_, err = svc.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}
