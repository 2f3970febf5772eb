package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hyeonsu-lee/goboard/services"
	"github.com/hyeonsu-lee/goboard/utils"
)

// fail maps a service error onto the response envelope. Unknown errors
// are logged and reported as a generic 500.
func fail(ctx *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		utils.Error(ctx, http.StatusBadRequest, 40000, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		utils.Error(ctx, http.StatusUnauthorized, 40100, "unauthorized")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40300, "forbidden")
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorw("request failed", "path", ctx.FullPath(), "error", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
	}
}

// idParam parses the :id path segment as an unsigned integer.
func idParam(ctx *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(ctx.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// pageQuery reads page/limit query values, leaving zero for absent or
// malformed ones so the pagination defaults apply.
func pageQuery(ctx *gin.Context) (page, limit int) {
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	return page, limit
}
