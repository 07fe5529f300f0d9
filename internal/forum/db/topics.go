package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultStatus は作成直後のトピックの状態。
const DefaultStatus = "ABIERTO"

// topicColumns はトピックのSELECT列。
const topicColumns = `id, title, message, author, course, status, created_at`

// Topic は掲示板のトピック。
type Topic struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Author    string    `db:"author"`
	Course    string    `db:"course"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// TopicParams はトピックの作成・更新で指定する値。
type TopicParams struct {
	Title   string
	Message string
	Author  string
	Course  string
}

// CreateTopic はトピックを作成する。状態はDefaultStatusになる。
// タイトルとメッセージの組が既に存在する場合はErrDuplicateを返す。
func (q *Queries) CreateTopic(ctx context.Context, p TopicParams, createdAt time.Time) (*Topic, error) {
	t := &Topic{
		Title:     p.Title,
		Message:   p.Message,
		Author:    p.Author,
		Course:    p.Course,
		Status:    DefaultStatus,
		CreatedAt: createdAt.UTC().Truncate(time.Second),
	}
	query := q.db.Rebind(`
		INSERT INTO topics (title, message, author, course, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)
	if err := q.db.GetContext(ctx, &t.ID, query, t.Title, t.Message, t.Author, t.Course, t.Status, t.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("トピックの作成に失敗: %w", err)
	}
	return t, nil
}

// GetTopic はIDでトピックを取得する。
func (q *Queries) GetTopic(ctx context.Context, id int64) (*Topic, error) {
	var t Topic
	query := q.db.Rebind(`SELECT ` + topicColumns + ` FROM topics WHERE id = ?`)
	if err := q.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("トピックの取得に失敗: %w", err)
	}
	return &t, nil
}

// TopicExists はIDのトピックが存在するかどうかを返す。
func (q *Queries) TopicExists(ctx context.Context, id int64) (bool, error) {
	var n int
	query := q.db.Rebind(`SELECT COUNT(*) FROM topics WHERE id = ?`)
	if err := q.db.GetContext(ctx, &n, query, id); err != nil {
		return false, fmt.Errorf("トピックの存在確認に失敗: %w", err)
	}
	return n > 0, nil
}

// DuplicateExists はタイトルとメッセージが一致する別のトピックが存在するかどうかを返す。
// excludeIDのトピックは比較対象から除く。作成時は0を渡す。
func (q *Queries) DuplicateExists(ctx context.Context, title, message string, excludeID int64) (bool, error) {
	var n int
	query := q.db.Rebind(`SELECT COUNT(*) FROM topics WHERE title = ? AND message = ? AND id <> ?`)
	if err := q.db.GetContext(ctx, &n, query, title, message, excludeID); err != nil {
		return false, fmt.Errorf("重複の確認に失敗: %w", err)
	}
	return n > 0, nil
}

// FindTopicByTitleAndAuthor はタイトルと著者が完全一致するトピックを1件取得する。
// 複数ある場合はIDが最小のものを返す。
func (q *Queries) FindTopicByTitleAndAuthor(ctx context.Context, title, author string) (*Topic, error) {
	var t Topic
	query := q.db.Rebind(`SELECT ` + topicColumns + ` FROM topics WHERE title = ? AND author = ? ORDER BY id LIMIT 1`)
	if err := q.db.GetContext(ctx, &t, query, title, author); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("トピックの検索に失敗: %w", err)
	}
	return &t, nil
}

// UpdateTopic はトピックのタイトル・メッセージ・著者・コースを置き換える。
// 作成日時と状態は変更しない。
func (q *Queries) UpdateTopic(ctx context.Context, id int64, p TopicParams) (*Topic, error) {
	query := q.db.Rebind(`UPDATE topics SET title = ?, message = ?, author = ?, course = ? WHERE id = ?`)
	res, err := q.db.ExecContext(ctx, query, p.Title, p.Message, p.Author, p.Course, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("トピックの更新に失敗: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return q.GetTopic(ctx, id)
}

// DeleteTopic はトピックを削除する。
func (q *Queries) DeleteTopic(ctx context.Context, id int64) error {
	query := q.db.Rebind(`DELETE FROM topics WHERE id = ?`)
	res, err := q.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("トピックの削除に失敗: %w", err)
	}
	return requireAffected(res)
}

// ListTopics は条件に一致するトピックの1ページ分と総件数を返す。
func (q *Queries) ListTopics(ctx context.Context, f TopicFilter, p PageRequest) ([]Topic, int64, error) {
	where, args := f.where()

	var total int64
	countQuery := q.db.Rebind(`SELECT COUNT(*) FROM topics` + where)
	if err := q.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("トピック件数の取得に失敗: %w", err)
	}

	topics := []Topic{}
	if total == 0 || p.Offset() >= total {
		return topics, total, nil
	}

	listQuery := q.db.Rebind(`SELECT ` + topicColumns + ` FROM topics` + where + p.orderBy() + ` LIMIT ? OFFSET ?`)
	listArgs := append(args, p.Size, p.Offset())
	if err := q.db.SelectContext(ctx, &topics, listQuery, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("トピック一覧の取得に失敗: %w", err)
	}
	return topics, total, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新件数の取得に失敗: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// TopicFilter はトピック一覧の絞り込み条件。空の項目は条件に含めない。
type TopicFilter struct {
	// Course はコースの完全一致。
	Course string
	// Author は著者の完全一致。
	Author string
	// Text はタイトルまたはメッセージの部分一致（大文字小文字を区別しない）。
	Text string

	// 以下は各列の部分一致（大文字小文字を区別しない）。
	TitleContains   string
	MessageContains string
	AuthorContains  string
	CourseContains  string
	StatusContains  string

	// CreatedFrom 以降（含む）に作成されたもの。
	CreatedFrom *time.Time
	// CreatedBefore より前（含まない）に作成されたもの。
	CreatedBefore *time.Time
}

// where はWHERE句と引数を組み立てる。条件がない場合は空文字列を返す。
func (f TopicFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	eq := func(col, v string) {
		if v != "" {
			conds = append(conds, col+" = ?")
			args = append(args, v)
		}
	}
	contains := func(col, v string) {
		if v != "" {
			conds = append(conds, "LOWER("+col+`) LIKE LOWER(?) ESCAPE '\'`)
			args = append(args, likePattern(v))
		}
	}

	eq("course", f.Course)
	eq("author", f.Author)
	if f.Text != "" {
		pattern := likePattern(f.Text)
		conds = append(conds, `(LOWER(title) LIKE LOWER(?) ESCAPE '\' OR LOWER(message) LIKE LOWER(?) ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	contains("title", f.TitleContains)
	contains("message", f.MessageContains)
	contains("author", f.AuthorContains)
	contains("course", f.CourseContains)
	contains("status", f.StatusContains)
	if f.CreatedFrom != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.CreatedFrom.UTC())
	}
	if f.CreatedBefore != nil {
		conds = append(conds, "created_at < ?")
		args = append(args, f.CreatedBefore.UTC())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern は部分一致用のLIKEパターンを返す。ワイルドカード文字はエスケープする。
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
