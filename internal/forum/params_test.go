package forum

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	forumdb "github.com/nao1215/foro/internal/forum/db"
)

func newQueryContext(rawQuery string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/topicos?"+rawQuery, nil)
	return c
}

// TestParsePageRequest はページング指定の解釈を検証する。
func TestParsePageRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		want    forumdb.PageRequest
		wantErr bool
	}{
		{
			name:  "省略時は0ページ目・10件・作成日時の昇順",
			query: "",
			want:  forumdb.PageRequest{Page: 0, Size: 10, Sort: forumdb.SortCreatedAt},
		},
		{
			name:  "並び替えの列と方向を指定できること",
			query: "page=2&size=25&sort=titulo,DESC",
			want:  forumdb.PageRequest{Page: 2, Size: 25, Sort: forumdb.SortTitle, Desc: true},
		},
		{
			name:  "方向を省略すると昇順になること",
			query: "sort=autor",
			want:  forumdb.PageRequest{Size: 10, Sort: forumdb.SortAuthor},
		},
		{name: "負のページはエラー", query: "page=-1", wantErr: true},
		{name: "上限を超えるサイズはエラー", query: "size=101", wantErr: true},
		{name: "未対応の列はエラー", query: "sort=mensaje,asc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parsePageRequest(newQueryContext(tt.query))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("page request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestApplyDateRange は作成日の範囲指定を検証する。
func TestApplyDateRange(t *testing.T) {
	t.Parallel()

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("日付のみのhastaは翌日0時を排他的な上限にすること", func(t *testing.T) {
		t.Parallel()

		var f forumdb.TopicFilter
		require.NoError(t, applyDateRange(&f, "2025-01-01", "2025-01-31"))
		require.NotNil(t, f.CreatedFrom)
		require.NotNil(t, f.CreatedBefore)
		assert.Equal(t, day(2025, 1, 1), *f.CreatedFrom)
		assert.Equal(t, day(2025, 2, 1), *f.CreatedBefore)
	})

	t.Run("RFC 3339のhastaは1秒後を上限にすること", func(t *testing.T) {
		t.Parallel()

		var f forumdb.TopicFilter
		require.NoError(t, applyDateRange(&f, "", "2025-01-31T10:00:00+09:00"))
		assert.Nil(t, f.CreatedFrom)
		assert.Equal(t, time.Date(2025, 1, 31, 1, 0, 1, 0, time.UTC), *f.CreatedBefore)
	})

	t.Run("同じ日付は有効な範囲になること", func(t *testing.T) {
		t.Parallel()

		var f forumdb.TopicFilter
		assert.NoError(t, applyDateRange(&f, "2025-01-01", "2025-01-01"))
	})

	t.Run("desdeがhastaより後ならエラーになること", func(t *testing.T) {
		t.Parallel()

		var f forumdb.TopicFilter
		assert.Error(t, applyDateRange(&f, "2025-02-01", "2025-01-01"))
	})

	t.Run("解釈できない日付はエラーになること", func(t *testing.T) {
		t.Parallel()

		var f forumdb.TopicFilter
		assert.Error(t, applyDateRange(&f, "ayer", ""))
	})
}

// TestYearRange は年の範囲を検証する。
func TestYearRange(t *testing.T) {
	t.Parallel()

	from, before, err := yearRange("2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), before)

	_, _, err = yearRange("veinte")
	assert.Error(t, err)
}
