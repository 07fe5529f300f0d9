package forum

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/foro/internal/forum/db"
	"github.com/nao1215/foro/pkg/apperror"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	dateLayout      = "2006-01-02"
)

// sortFields はクエリのsortで指定できる名前と列の対応。
var sortFields = map[string]db.SortField{
	"fechaCreacion": db.SortCreatedAt,
	"titulo":        db.SortTitle,
	"autor":         db.SortAuthor,
	"curso":         db.SortCourse,
	"id":            db.SortID,
}

// parsePageRequest はpage・size・sortクエリを解釈する。
// 省略時は0ページ目、10件、作成日時の昇順。
func parsePageRequest(c *gin.Context) (db.PageRequest, error) {
	p := db.PageRequest{Size: defaultPageSize, Sort: db.SortCreatedAt}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, apperror.InvalidInput("El parámetro 'page' debe ser un número mayor o igual a 0")
		}
		p.Page = n
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			return p, apperror.InvalidInput("El parámetro 'size' debe estar entre 1 y 100")
		}
		p.Size = n
	}
	if v := c.Query("sort"); v != "" {
		name, dir, _ := strings.Cut(v, ",")
		field, ok := sortFields[strings.TrimSpace(name)]
		if !ok {
			return p, apperror.InvalidInput("Campo de ordenamiento no soportado: " + name)
		}
		p.Sort = field
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			p.Desc = true
		default:
			return p, apperror.InvalidInput("Dirección de ordenamiento inválida: " + dir)
		}
	}
	return p, nil
}

// parseID はパスパラメータのIDを解釈する。1未満や数値でない場合はエラー。
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.InvalidInput("ID inválido")
	}
	return id, nil
}

// yearRange はanioで指定された年の範囲を返す。
func yearRange(v string) (from, before time.Time, err error) {
	year, convErr := strconv.Atoi(v)
	if convErr != nil || year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, apperror.InvalidInput("El parámetro 'anio' debe ser un año válido")
	}
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0), nil
}

// dateBound は日付の範囲指定を解釈した結果。
type dateBound struct {
	// at は指定された時刻。日付のみの場合はその日の0時。
	at time.Time
	// dateOnly が真の場合は yyyy-MM-dd 形式で指定された。
	dateOnly bool
}

// parseDateBound は yyyy-MM-dd またはRFC 3339の日時を解釈する。
func parseDateBound(name, v string) (*dateBound, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return &dateBound{at: t, dateOnly: true}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &dateBound{at: t.UTC()}, nil
	}
	return nil, apperror.InvalidInput("Formato de fecha inválido en '" + name + "'. Use yyyy-MM-dd")
}

// applyDateRange はdesdeとhastaを両端を含む範囲としてフィルタに設定する。
func applyDateRange(f *db.TopicFilter, desde, hasta string) error {
	from, err := parseDateBound("desde", desde)
	if err != nil {
		return err
	}
	to, err := parseDateBound("hasta", hasta)
	if err != nil {
		return err
	}
	if from != nil && to != nil && from.at.After(to.at) {
		return apperror.InvalidInput("La fecha 'desde' no puede ser posterior a 'hasta'")
	}

	if from != nil {
		f.CreatedFrom = &from.at
	}
	if to != nil {
		// 作成日時は秒単位で保存しているため、次の日または次の秒を排他的な上限にする
		before := to.at.Add(time.Second)
		if to.dateOnly {
			before = to.at.AddDate(0, 0, 1)
		}
		f.CreatedBefore = &before
	}
	return nil
}
