package forum

import (
	"github.com/nao1215/foro/internal/forum/db"
)

// fechaLayout はトピックの作成日時をJSONに出力する形式。
const fechaLayout = "2006-01-02T15:04:05"

// credentialsRequest は登録・ログインのリクエスト本文。
type credentialsRequest struct {
	// Username はログインに使うユーザー名。
	Username string `json:"username" validate:"required,notblank,min=3,max=50,handle"`
	// Password は平文のパスワード。bcryptが扱える72バイトまで。
	Password string `json:"password" validate:"required,notblank,min=6,max=72"`
}

// ValidationMessages はvalidation.Messagerを実装する。
func (credentialsRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"username.required": "El nombre de usuario es obligatorio",
		"username.notblank": "El nombre de usuario es obligatorio",
		"username.min":      "El nombre de usuario debe tener entre 3 y 50 caracteres",
		"username.max":      "El nombre de usuario debe tener entre 3 y 50 caracteres",
		"username.handle":   "El nombre de usuario solo puede contener letras, números, puntos, guiones y guiones bajos",
		"password.required": "La contraseña es obligatoria",
		"password.notblank": "La contraseña es obligatoria",
		"password.min":      "La contraseña debe tener entre 6 y 72 caracteres",
		"password.max":      "La contraseña debe tener entre 6 y 72 caracteres",
	}
}

// topicRequest はトピックの作成・更新のリクエスト本文。
type topicRequest struct {
	Titulo  string `json:"titulo" validate:"required,notblank,min=5,max=100"`
	Mensaje string `json:"mensaje" validate:"required,notblank,min=10,max=2000"`
	Autor   string `json:"autor" validate:"required,notblank,min=3,max=50,handle"`
	Curso   string `json:"curso" validate:"required,notblank,min=2,max=50"`
}

// ValidationMessages はvalidation.Messagerを実装する。
func (topicRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"titulo.required":  "El título es obligatorio",
		"titulo.notblank":  "El título es obligatorio",
		"titulo.min":       "El título debe tener entre 5 y 100 caracteres",
		"titulo.max":       "El título debe tener entre 5 y 100 caracteres",
		"mensaje.required": "El mensaje es obligatorio",
		"mensaje.notblank": "El mensaje es obligatorio",
		"mensaje.min":      "El mensaje debe tener entre 10 y 2000 caracteres",
		"mensaje.max":      "El mensaje debe tener entre 10 y 2000 caracteres",
		"autor.required":   "El autor es obligatorio",
		"autor.notblank":   "El autor es obligatorio",
		"autor.min":        "El nombre del autor debe tener entre 3 y 50 caracteres",
		"autor.max":        "El nombre del autor debe tener entre 3 y 50 caracteres",
		"autor.handle":     "El autor solo puede contener letras, números, puntos, guiones y guiones bajos",
		"curso.required":   "El curso es obligatorio",
		"curso.notblank":   "El curso es obligatorio",
		"curso.min":        "El nombre del curso debe tener entre 2 y 50 caracteres",
		"curso.max":        "El nombre del curso debe tener entre 2 y 50 caracteres",
	}
}

// params はリクエストをDB層の引数に変換する。
func (r topicRequest) params() db.TopicParams {
	return db.TopicParams{
		Title:   r.Titulo,
		Message: r.Mensaje,
		Author:  r.Autor,
		Course:  r.Curso,
	}
}

// authResponse は登録・ログイン成功時のレスポンス。
type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// topicResponse はトピック詳細のレスポンス。
type topicResponse struct {
	ID            int64  `json:"id"`
	Titulo        string `json:"titulo"`
	Mensaje       string `json:"mensaje"`
	FechaCreacion string `json:"fechaCreacion"`
	Estado        string `json:"estado"`
	Autor         string `json:"autor"`
	Curso         string `json:"curso"`
}

// toTopicResponse はDBの行をレスポンスに変換する。
func toTopicResponse(t db.Topic) topicResponse {
	return topicResponse{
		ID:            t.ID,
		Titulo:        t.Title,
		Mensaje:       t.Message,
		FechaCreacion: t.CreatedAt.UTC().Format(fechaLayout),
		Estado:        t.Status,
		Autor:         t.Author,
		Curso:         t.Course,
	}
}

// pageResponse はページングされた一覧のレスポンス。
type pageResponse struct {
	Content          []topicResponse `json:"content"`
	TotalElements    int64           `json:"totalElements"`
	TotalPages       int             `json:"totalPages"`
	Size             int             `json:"size"`
	Number           int             `json:"number"`
	NumberOfElements int             `json:"numberOfElements"`
	First            bool            `json:"first"`
	Last             bool            `json:"last"`
	Empty            bool            `json:"empty"`
}

// newPageResponse は一覧の取得結果からページのレスポンスを組み立てる。
func newPageResponse(topics []db.Topic, total int64, p db.PageRequest) pageResponse {
	content := make([]topicResponse, 0, len(topics))
	for _, t := range topics {
		content = append(content, toTopicResponse(t))
	}
	totalPages := 0
	if p.Size > 0 {
		totalPages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return pageResponse{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             p.Size,
		Number:           p.Page,
		NumberOfElements: len(content),
		First:            p.Page == 0,
		Last:             p.Page+1 >= totalPages,
		Empty:            len(content) == 0,
	}
}

// messageResponse は本文が文言のみのレスポンス。
type messageResponse struct {
	Mensaje string `json:"mensaje"`
}
