package handlers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination holds page-number pagination defaults.
type Pagination struct {
	PageSize    int
	MaxPageSize int
}

// parse reads ?page and ?page_size; bad values fall back to defaults.
func (p Pagination) parse(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err = strconv.Atoi(c.Query("page_size"))
	if err != nil || size < 1 {
		size = p.PageSize
	}
	if p.MaxPageSize > 0 && size > p.MaxPageSize {
		size = p.MaxPageSize
	}
	if size < 1 {
		size = 1
	}
	// keep (page-1)*size representable
	if maxPage := math.MaxInt/size + 1; page > maxPage {
		page = maxPage
	}
	return page, size
}

// pageLink returns the current URL with ?page replaced, or nil.
func pageLink(c *gin.Context, page int, ok bool) *string {
	if !ok {
		return nil
	}
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := u.RequestURI()
	return &s
}
