// foro（掲示板API）のエントリポイント。
// serveでHTTPサーバーを起動し、migrateでスキーマを適用する。
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/nao1215/foro/internal/config"
	"github.com/nao1215/foro/internal/forum"
	forumdb "github.com/nao1215/foro/internal/forum/db"
	"github.com/nao1215/foro/internal/forum/migrations"
	"github.com/nao1215/foro/pkg/logging"
	"github.com/nao1215/foro/pkg/migration"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("foroの実行に失敗: %v", err)
	}
}

func newApp() *cli.App {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML設定ファイルのパス",
			EnvVars: []string{"FORO_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "読み込む.envファイルのパス",
			Value: ".env",
		},
	}

	return &cli.App{
		Name:   "foro",
		Usage:  "掲示板API",
		Flags:  flags,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "HTTPサーバーを起動する",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "マイグレーションを適用する",
				Action: migrate,
				Subcommands: []*cli.Command{
					{
						Name:   "status",
						Usage:  "適用済みのバージョンを表示する",
						Action: migrateStatus,
					},
				},
			},
		},
	}
}

// setup は設定、ロガー、データベース接続を用意する。
func setup(c *cli.Context) (*config.Config, *zap.Logger, *sqlx.DB, error) {
	cfg, err := config.Load(c.String("config"), c.String("env-file"))
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, nil, err
	}
	conn, err := forumdb.Open(c.Context, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}
	return cfg, logger, conn, nil
}

func applyMigrations(ctx context.Context, cfg *config.Config, conn *sqlx.DB, logger *zap.Logger) error {
	dir, err := migrations.Dir(cfg.Database.Driver)
	if err != nil {
		return err
	}
	return migration.Run(ctx, conn, migrations.FS, dir, logger)
}

func serve(c *cli.Context) error {
	cfg, logger, conn, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer conn.Close()

	if cfg.Database.AutoMigrate {
		if err := applyMigrations(c.Context, cfg, conn, logger); err != nil {
			return err
		}
	}

	server, err := forum.NewServer(cfg, conn, logger)
	if err != nil {
		return fmt.Errorf("サーバーの初期化に失敗: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx)
}

func migrate(c *cli.Context) error {
	cfg, logger, conn, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer conn.Close()

	return applyMigrations(c.Context, cfg, conn, logger)
}

func migrateStatus(c *cli.Context) error {
	_, logger, conn, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer conn.Close()

	versions, err := migration.Versions(c.Context, conn)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Fprintln(c.App.Writer, "適用済みのマイグレーションはありません")
		return nil
	}
	for _, v := range versions {
		fmt.Fprintf(c.App.Writer, "%06d\n", v)
	}
	return nil
}
