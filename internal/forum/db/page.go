package db

// SortField は一覧の並び替えに使える列。
type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortTitle     SortField = "title"
	SortAuthor    SortField = "author"
	SortCourse    SortField = "course"
	SortID        SortField = "id"
)

// Valid は並び替え可能な列かどうかを返す。
func (s SortField) Valid() bool {
	switch s {
	case SortCreatedAt, SortTitle, SortAuthor, SortCourse, SortID:
		return true
	}
	return false
}

// PageRequest はページングと並び順の指定。
type PageRequest struct {
	// Page は0始まりのページ番号。
	Page int
	// Size は1ページあたりの件数。
	Size int
	// Sort は並び替えの列。不正な値の場合は作成日時を使う。
	Sort SortField
	// Desc が真の場合は降順。
	Desc bool
}

// Offset は読み飛ばす件数を返す。
func (p PageRequest) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}

// orderBy はORDER BY句を返す。同値の場合はIDで同じ方向に並べる。
func (p PageRequest) orderBy() string {
	col := p.Sort
	if !col.Valid() {
		col = SortCreatedAt
	}
	dir := " ASC"
	if p.Desc {
		dir = " DESC"
	}
	if col == SortID {
		return " ORDER BY id" + dir
	}
	return " ORDER BY " + string(col) + dir + ", id" + dir
}
