// Package apperror はAPI全体で共通のエラー分類と、エラーレスポンス本文への変換を提供する。
//
// ハンドラは種類付きのエラーを返すだけでよく、HTTPステータスと本文の決定は
// middleware.ErrorHandler がこのパッケージを使って一箇所で行う。
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind はエラーの種類を表す。
type Kind int

const (
	// KindInternal は想定外の内部エラー。
	KindInternal Kind = iota
	// KindNotFound は対象エンティティが存在しない。
	KindNotFound
	// KindConflict は重複（トピックやユーザー名）。
	KindConflict
	// KindInvalidInput は入力値の検証失敗や不正なID・日付。
	KindInvalidInput
	// KindUnauthorized はトークン不正または認証情報の不一致。
	KindUnauthorized
	// KindForbidden は権限不足。現在のハンドラでは使用しない。
	KindForbidden
)

// String はログ出力用の種類名を返す。
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// kindInfo は種類ごとの固定のHTTPステータスと見出し。
type kindInfo struct {
	status  int
	mensaje string
}

// kinds はエラー種類からHTTPレスポンスへの固定の対応表。
// 重複は既存クライアントとの互換性のため400で返す。
var kinds = map[Kind]kindInfo{
	KindNotFound:     {status: http.StatusNotFound, mensaje: "Recurso no encontrado"},
	KindConflict:     {status: http.StatusBadRequest, mensaje: "Recurso duplicado"},
	KindInvalidInput: {status: http.StatusBadRequest, mensaje: "Datos inválidos"},
	KindUnauthorized: {status: http.StatusUnauthorized, mensaje: "No autorizado"},
	KindForbidden:    {status: http.StatusForbidden, mensaje: "Acceso denegado"},
	KindInternal:     {status: http.StatusInternalServerError, mensaje: "Error interno del servidor"},
}

// internalDescription はクライアントに返す内部エラーの説明。詳細はログにのみ出力する。
const internalDescription = "Ha ocurrido un error inesperado. Por favor, contacta al administrador"

// Error は種類付きのアプリケーションエラー。
type Error struct {
	// Kind はエラーの種類。
	Kind Kind
	// Title はレスポンスの見出し（mensaje）。空の場合は種類ごとの既定値を使う。
	Title string
	// Description はクライアント向けの説明（descripcion）。
	Description string
	// Details はフィールド単位の検証エラー（errores）。
	Details []string
	// Err は原因となったエラー。クライアントには返さない。
	Err error
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

// Unwrap は原因エラーを返す。
func (e *Error) Unwrap() error {
	return e.Err
}

// Status は種類に対応するHTTPステータスを返す。
func (e *Error) Status() int {
	return kinds[e.Kind].status
}

// NotFound は対象が存在しないエラーを生成する。
func NotFound(description string) *Error {
	return &Error{Kind: KindNotFound, Description: description}
}

// Conflict は重複エラーを生成する。
func Conflict(title, description string) *Error {
	return &Error{Kind: KindConflict, Title: title, Description: description}
}

// InvalidInput は入力不正エラーを生成する。
func InvalidInput(description string) *Error {
	return &Error{Kind: KindInvalidInput, Description: description}
}

// Validation はフィールド単位の検証エラーを生成する。
func Validation(details []string) *Error {
	return &Error{
		Kind:        KindInvalidInput,
		Title:       "Error de validación",
		Description: "Los datos proporcionados no cumplen con los requisitos",
		Details:     details,
	}
}

// Unauthorized は認証エラーを生成する。
func Unauthorized(description string) *Error {
	return &Error{Kind: KindUnauthorized, Description: description}
}

// Forbidden は権限不足エラーを生成する。
func Forbidden(description string) *Error {
	return &Error{Kind: KindForbidden, Description: description}
}

// Internal は内部エラーを生成する。errはログにのみ出力される。
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Description: internalDescription, Err: err}
}

// From は任意のエラーを*Errorに変換する。
// 種類付きでないエラーはすべて内部エラーとして扱う。
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Response はAPIのエラーレスポンス本文。
type Response struct {
	// Codigo はHTTPステータスコード。
	Codigo int `json:"codigo"`
	// Mensaje はエラーの見出し。
	Mensaje string `json:"mensaje"`
	// Descripcion はエラーの説明。
	Descripcion string `json:"descripcion"`
	// Timestamp はエラー発生日時（yyyy-MM-dd HH:mm:ss）。
	Timestamp string `json:"timestamp"`
	// Path はリクエストパス。
	Path string `json:"path"`
	// Errores はフィールド単位の検証エラー。
	Errores []string `json:"errores,omitempty"`
}

// TimestampLayout はエラーレスポンスの日時書式。
const TimestampLayout = "2006-01-02 15:04:05"

// ToResponse はエラーをレスポンス本文に変換する。
// 内部エラーの場合、原因エラーの内容は含めない。
func (e *Error) ToResponse(path string, now time.Time) Response {
	info := kinds[e.Kind]
	title := e.Title
	if title == "" {
		title = info.mensaje
	}
	description := e.Description
	if e.Kind == KindInternal {
		title = info.mensaje
		description = internalDescription
	}
	return Response{
		Codigo:      info.status,
		Mensaje:     title,
		Descripcion: description,
		Timestamp:   now.Format(TimestampLayout),
		Path:        path,
		Errores:     e.Details,
	}
}

// IsClientError はクライアント起因のエラーかどうかを返す。
func (e *Error) IsClientError() bool {
	return e.Kind != KindInternal
}
