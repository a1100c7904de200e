package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/canlotto/internal/domain"
)

func (c *Controller) GetDailyGrandYears(ctx echo.Context) error {
	years, err := c.dailyGrand.Years(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, yearsResponse{Game: domain.GameDailyGrand, Years: years})
}

func (c *Controller) GetDailyGrandResults(ctx echo.Context) error {
	var req yearRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	results, err := c.dailyGrand.ResultsByYear(ctx.Request().Context(), req.Year)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, results)
}

func (c *Controller) GetDailyGrandBreakdown(ctx echo.Context) error {
	var req dateRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return err
	}

	breakdown, err := c.dailyGrand.BreakdownByDate(ctx.Request().Context(), date)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, breakdown)
}
