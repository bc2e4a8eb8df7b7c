package handler

import (
	"strconv"

	"medash/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

const defaultPageSize = 20

// pageRequest reads the page, size and sort query parameters, falling back
// to the first page of twenty rows.
func pageRequest(c echo.Context) entity.PageRequest {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 0 {
		page = 0
	}

	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}

	return entity.PageRequest{
		Page: page,
		Size: size,
		Sort: c.QueryParam("sort"),
	}
}
