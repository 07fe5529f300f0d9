// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// ベアラートークンによる認証ゲート、リクエストIDの付与、アクセスログ、
// パニックリカバリ、エラーレスポンスへの変換、CORS設定を含む。
// 推奨する適用順は RequestID, Logger, Recovery, ErrorHandler, CORS, Gate。
package middleware
