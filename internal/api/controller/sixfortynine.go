package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/canlotto/internal/domain"
)

func (c *Controller) GetSixFortyNineYears(ctx echo.Context) error {
	years, err := c.sixFortyNine.Years(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, yearsResponse{Game: domain.GameSixFortyNine, Years: years})
}

func (c *Controller) GetSixFortyNineResults(ctx echo.Context) error {
	var req yearRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	results, err := c.sixFortyNine.ResultsByYear(ctx.Request().Context(), req.Year)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, results)
}

func (c *Controller) GetSixFortyNineBreakdown(ctx echo.Context) error {
	var req dateRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return err
	}

	breakdown, err := c.sixFortyNine.BreakdownByDate(ctx.Request().Context(), date)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, breakdown)
}
