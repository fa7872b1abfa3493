package httpx

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination(t *testing.T) {
	cases := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "page=3&page_size=25", 3, 25},
		{"max page size", "page_size=100", 1, 100},
		{"oversized falls back", "page_size=101", 1, 10},
		{"zero page", "page=0", 1, 10},
		{"negative values", "page=-2&page_size=-5", 1, 10},
		{"garbage", "page=abc&page_size=xyz", 1, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			assert.NoError(t, err)

			page, pageSize := Pagination(values)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantPageSize, pageSize)
		})
	}
}
