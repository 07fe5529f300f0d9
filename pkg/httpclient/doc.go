// Package httpclient は外部サービスとJSONでやり取りするHTTPクライアントを提供する。
//
// イベントストアへの監査イベント送信に使用する。
// 操作したユーザーはX-User-IDヘッダーで伝播する。
package httpclient
