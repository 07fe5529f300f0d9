// Package forum は掲示板APIのHTTPサーバーを提供する。
//
// 認証（ユーザー登録・ログイン）とトピックのCRUD・検索・ページングを扱う。
// 認証が必要なエンドポイントはmiddleware.Gateで保護し、エラーはapperrorの種類に変換して
// middleware.ErrorHandlerがレスポンスを書き込む。読み取りAPIの結果はキャッシュし、
// トピックの作成・更新・削除でキャッシュ全体を破棄する。
package forum
