// Package validation はgo-playground/validatorを使った入力DTOの検証を提供する。
//
// 検証結果は "<jsonフィールド名>: <メッセージ>" 形式の文字列スライスで返し、
// そのままエラーレスポンスのerroresに格納できる。
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// handlePattern はユーザー名・著者名に許可する文字の正規表現。
var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Messager は「フィールド名.タグ名」をキーとした検証メッセージを提供するDTOが実装する。
type Messager interface {
	ValidationMessages() map[string]string
}

var (
	once     sync.Once
	validate *validator.Validate
)

// instance はタグ登録済みのバリデータを返す。
func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		// 空白のみの文字列を拒否する
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
			return handlePattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Struct はvの検証タグを評価し、違反をフィールド順に返す。
// 違反がない場合はnilを返す。
func Struct(v any) []string {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	var messages map[string]string
	if m, ok := v.(Messager); ok {
		messages = m.ValidationMessages()
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field()+": "+message(messages, fe))
	}
	return out
}

// message はフィールドエラーに対応するメッセージを返す。
func message(messages map[string]string, fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required", "notblank":
		return "El campo es obligatorio"
	case "min":
		return "Debe tener al menos " + fe.Param() + " caracteres"
	case "max":
		return "Debe tener como máximo " + fe.Param() + " caracteres"
	case "handle":
		return "Solo puede contener letras, números, puntos, guiones y guiones bajos"
	default:
		return "El valor no es válido"
	}
}
