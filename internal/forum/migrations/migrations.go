// Package migrations はforoのスキーマ定義をSQLファイルとして埋め込む。
// SQLiteとPostgreSQLで方言が異なるため、ドライバーごとにディレクトリを分ける。
package migrations

import (
	"embed"
	"fmt"
)

// FS はすべてのマイグレーションファイルを含む。
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Dir はドライバー名に対応するマイグレーションディレクトリを返す。
func Dir(driver string) (string, error) {
	switch driver {
	case "sqlite":
		return "sqlite", nil
	case "pgx":
		return "postgres", nil
	default:
		return "", fmt.Errorf("未対応のドライバーです: %q", driver)
	}
}
