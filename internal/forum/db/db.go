// Package db はforoのデータベースアクセスを提供する。
//
// SQLは明示的に記述し、プレースホルダーは ? で書いてsqlxのRebindでドライバーごとの形式に変換する。
// SQLite（modernc.org/sqlite）とPostgreSQL（pgx）の両方で同じクエリを使う。
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	// DriverSQLite はmodernc.org/sqliteのドライバー名。
	DriverSQLite = "sqlite"
	// DriverPostgres はpgxのdatabase/sqlドライバー名。
	DriverPostgres = "pgx"

	// pgUniqueViolation はPostgreSQLの一意制約違反のエラーコード。
	pgUniqueViolation = "23505"
)

var (
	// ErrNotFound は対象の行が存在しないことを表す。
	ErrNotFound = errors.New("対象が見つかりません")
	// ErrDuplicate は一意制約に違反したことを表す。
	ErrDuplicate = errors.New("一意制約違反です")
)

func init() {
	// sqlxは "sqlite" をドライバー名として認識しないため明示的に登録する
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open はデータベースに接続し、疎通を確認する。
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("未対応のドライバーです: %q", driver)
	}

	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	if driver == DriverSQLite {
		// SQLiteは書き込みが直列化されるため、接続を1つに制限してロック待ちを避ける。
		// インメモリDBも接続ごとに別DBになるため同じ制限が必要。
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("データベースへの疎通確認に失敗: %w", err)
	}
	return conn, nil
}

// sqliteDSN はSQLiteの接続文字列に既定のパラメーターを付与する。
// 日時は "2006-01-02 15:04:05-07:00" 形式で保存し、文字列比較で範囲検索できるようにする。
func sqliteDSN(dsn string) string {
	params := []string{"_pragma=busy_timeout(5000)", "_pragma=foreign_keys(1)"}
	if !strings.Contains(dsn, "_time_format=") {
		params = append(params, "_time_format=sqlite")
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// Queries はforoのクエリを実行する。
type Queries struct {
	db *sqlx.DB
}

// New は新しいQueriesを生成する。
func New(db *sqlx.DB) *Queries {
	return &Queries{db: db}
}

// Ping はデータベースの疎通を確認する。
func (q *Queries) Ping(ctx context.Context) error {
	return q.db.PingContext(ctx)
}

// isUniqueViolation はドライバーのエラーが一意制約違反かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(sqliteErr.Error(), "UNIQUE")
		}
	}
	return false
}
