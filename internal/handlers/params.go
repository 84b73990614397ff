package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)

	if err != nil {
		return 0, false
	}

	return uint(value), true
}

// parsePagination reads skip/limit query parameters, falling back to
// offset 0 and the store's default limit.
func parsePagination(ctx *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "0"))

	if skip < 0 {
		skip = 0
	}

	return skip, limit
}
