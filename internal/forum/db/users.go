package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// User は登録済みの認証情報。
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// CreateUser はユーザーを登録する。
// ユーザー名が既に存在する場合はErrDuplicateを返す。
func (q *Queries) CreateUser(ctx context.Context, username, passwordHash string, createdAt time.Time) (*User, error) {
	u := &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt.UTC().Truncate(time.Second),
	}
	query := q.db.Rebind(`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?) RETURNING id`)
	if err := q.db.GetContext(ctx, &u.ID, query, u.Username, u.PasswordHash, u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("ユーザーの登録に失敗: %w", err)
	}
	return u, nil
}

// GetUserByUsername はユーザー名でユーザーを取得する。
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	query := q.db.Rebind(`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`)
	if err := q.db.GetContext(ctx, &u, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}
	return &u, nil
}

// UsernameExists はユーザー名が登録済みかどうかを返す。
func (q *Queries) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	query := q.db.Rebind(`SELECT COUNT(*) FROM users WHERE username = ?`)
	if err := q.db.GetContext(ctx, &n, query, username); err != nil {
		return false, fmt.Errorf("ユーザー名の確認に失敗: %w", err)
	}
	return n > 0, nil
}
