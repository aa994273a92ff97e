// file: internals/helpers/pagination.go
package helper

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 50
	MaxPerPage     = 500
)

type PageParams struct {
	Page    int
	PerPage int
}

// ParsePage reads ?page= and ?per_page= (alias ?limit=) with sane clamping.
func ParsePage(c *fiber.Ctx) PageParams {
	page := atoiDefault(c.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	perRaw := strings.TrimSpace(c.Query("per_page"))
	if perRaw == "" {
		perRaw = strings.TrimSpace(c.Query("limit"))
	}
	per := atoiDefault(perRaw, DefaultPerPage)
	if per < 1 {
		per = DefaultPerPage
	}
	if per > MaxPerPage {
		per = MaxPerPage
	}
	return PageParams{Page: page, PerPage: per}
}

func (p PageParams) Offset() int { return (p.Page - 1) * p.PerPage }

type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func (p PageParams) Meta(total int64) PageMeta {
	pages := int(math.Ceil(float64(total) / float64(p.PerPage)))
	if pages < 1 {
		pages = 1
	}
	return PageMeta{Page: p.Page, PerPage: p.PerPage, Total: total, TotalPages: pages}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
