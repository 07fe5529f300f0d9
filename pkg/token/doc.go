// Package token は署名付きベアラートークン（JWT）の発行と検証を提供する。
//
// トークンはサブジェクト（ユーザー名）と有効期限のみを持つステートレスな資格情報であり、
// 失効リストやリフレッシュは持たない。有効性は署名と有効期限だけで判定する。
package token
