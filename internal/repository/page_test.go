package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQuery_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageQuery
		want PageQuery
	}{
		{
			name: "defaults",
			in:   PageQuery{},
			want: PageQuery{Limit: 10, Page: 1, SortBy: "createdAt", SortOrder: "desc"},
		},
		{
			name: "limit capped",
			in:   PageQuery{Limit: 500, Page: 3, SortBy: "title", SortOrder: "ASC"},
			want: PageQuery{Limit: 100, Page: 3, SortBy: "title", SortOrder: "asc"},
		},
		{
			name: "huge page clamped so the offset fits",
			in:   PageQuery{Limit: 20, Page: math.MaxInt},
			want: PageQuery{Limit: 20, Page: math.MaxInt / 20, SortBy: "createdAt", SortOrder: "desc"},
		},
		{
			name: "unknown order falls back to desc",
			in:   PageQuery{Limit: 5, Page: -2, SortOrder: "sideways"},
			want: PageQuery{Limit: 5, Page: 1, SortBy: "createdAt", SortOrder: "desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPageQuery_Validate(t *testing.T) {
	assert.NoError(t, PageQuery{SortBy: "profile.location"}.Validate())
	assert.NoError(t, PageQuery{}.Validate())
	assert.Error(t, PageQuery{SortBy: "$where"}.Validate())
	assert.Error(t, PageQuery{SortBy: "a b"}.Validate())
}

func TestPageQuery_SkipAndDirection(t *testing.T) {
	pq := PageQuery{Limit: 10, Page: 3, SortOrder: "asc"}
	assert.Equal(t, int64(20), pq.Skip())
	assert.Equal(t, 1, pq.Direction())
	assert.Equal(t, -1, PageQuery{SortOrder: "desc"}.Direction())

	huge := PageQuery{Limit: 10, Page: math.MaxInt}
	assert.Equal(t, int64(math.MaxInt64), huge.Skip())
	assert.GreaterOrEqual(t, huge.Normalize().Skip(), int64(0))
	assert.Equal(t, int64(0), PageQuery{Limit: 10}.Skip())
}

func TestNewPageResult(t *testing.T) {
	res := NewPageResult[string](nil, PageQuery{Limit: 10, Page: 2}, 21)

	assert.Equal(t, []string{}, res.Results)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 21, res.TotalResults)
	assert.Equal(t, 2, res.Page)

	empty := NewPageResult([]int{}, PageQuery{Limit: 10, Page: 1}, 0)
	assert.Equal(t, 0, empty.TotalPages)
}
