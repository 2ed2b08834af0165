package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestNewPaginationMeta(t *testing.T) {
	req := require.New(t)

	meta := newPaginationMeta(25, 2, 10)
	req.Equal(int64(25), meta.TotalItems)
	req.Equal(3, meta.TotalPages)
	req.Equal(2, meta.CurrentPage)
	req.Equal(10, meta.PageSize)

	empty := newPaginationMeta(0, 1, 0)
	req.Equal(0, empty.TotalPages)
	req.Equal(1, empty.PageSize)
}

func TestPageParams(t *testing.T) {
	req := require.New(t)
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query                     string
		wantPage, wantLimit, wantOffset int
	}{
		{"", 1, 10, 0},
		{"page=3&limit=20", 3, 20, 40},
		{"page=0&limit=0", 1, 10, 0},
		{"page=-2&limit=1000", 1, 10, 0},
		{"page=abc&limit=xyz", 1, 10, 0},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+tc.query, nil)

		page, limit, offset := pageParams(c, 10, 100)
		req.Equal(tc.wantPage, page, "query %q", tc.query)
		req.Equal(tc.wantLimit, limit, "query %q", tc.query)
		req.Equal(tc.wantOffset, offset, "query %q", tc.query)
	}
}
