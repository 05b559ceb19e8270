package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQuery_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        PageQuery
		wantPage  int
		wantLimit int
	}{
		{"zero values", PageQuery{}, 1, 10},
		{"negative", PageQuery{Page: -2, Limit: -5}, 1, 10},
		{"over max", PageQuery{Page: 3, Limit: 500}, 3, 100},
		{"kept", PageQuery{Page: 2, Limit: 25}, 2, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			q.Normalize()
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}

func TestPageQuery_Offset(t *testing.T) {
	assert.Equal(t, 0, PageQuery{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, PageQuery{Page: 3, Limit: 20}.Offset())
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 20, 5},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestNewPage_NilItemsBecomeEmpty(t *testing.T) {
	p := NewPage[int](nil, 0, PageQuery{Page: 1, Limit: 10})
	assert.NotNil(t, p.Items)
	assert.Equal(t, 0, p.Pages)
}
