package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const title = "Canadian Lottery Results API"

func (c *Controller) GetRoot(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"title":   title,
		"version": c.version,
	})
}
