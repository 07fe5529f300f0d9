package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyLength は署名鍵の最小バイト長（256ビット）。
const MinKeyLength = 32

// DefaultTTL はトークンのデフォルト有効期間。
const DefaultTTL = 24 * time.Hour

var (
	// ErrInvalid はトークンが不正であることを表す。
	// 形式不正・署名不一致・期限切れを区別せずにこの値を返す。
	ErrInvalid = errors.New("トークンが無効です")
	// ErrKeyTooShort は署名鍵が短すぎることを表す。
	ErrKeyTooShort = fmt.Errorf("署名鍵は%dバイト以上である必要があります", MinKeyLength)
	// ErrEmptySubject はサブジェクトが空であることを表す。
	ErrEmptySubject = errors.New("サブジェクトが空です")
)

// signingMethod はトークンの署名アルゴリズム。
var signingMethod = jwt.SigningMethodHS512

// Service は署名付きベアラートークンの発行と検証を行う。
// 鍵はプロセス起動時に注入され、以後変更されない。
type Service struct {
	// key はHMAC署名用の対称鍵。
	key []byte
	// ttl はトークンの有効期間。
	ttl time.Duration
	// now は現在時刻を返す関数。テストで差し替える。
	now func() time.Time
}

// Option はServiceの生成オプション。
type Option func(*Service)

// WithClock は現在時刻の取得関数を差し替える。
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New は新しいトークンサービスを生成する。
// keyは256ビット以上、ttlは正の値でなければならない。
func New(key []byte, ttl time.Duration, opts ...Option) (*Service, error) {
	if len(key) < MinKeyLength {
		return nil, ErrKeyTooShort
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("有効期間が不正です: %s", ttl)
	}

	s := &Service{
		key: append([]byte(nil), key...),
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL はトークンの有効期間を返す。
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue はsubjectを格納した署名付きトークンを発行する。
// 有効期限は発行時刻 + TTL。
func (s *Service) Issue(subject string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、subjectを返す。
// 失敗理由にかかわらずErrInvalidを返す。
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalid
	}
	if claims.Subject == "" {
		return "", ErrInvalid
	}
	return claims.Subject, nil
}
