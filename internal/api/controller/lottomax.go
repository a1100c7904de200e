package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/canlotto/internal/domain"
)

func (c *Controller) GetLottoMaxYears(ctx echo.Context) error {
	years, err := c.lottoMax.Years(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, yearsResponse{Game: domain.GameLottoMax, Years: years})
}

func (c *Controller) GetLottoMaxResults(ctx echo.Context) error {
	var req yearRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	results, err := c.lottoMax.ResultsByYear(ctx.Request().Context(), req.Year)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, results)
}

func (c *Controller) GetLottoMaxBreakdown(ctx echo.Context) error {
	var req dateRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return err
	}

	breakdown, err := c.lottoMax.BreakdownByDate(ctx.Request().Context(), date)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, breakdown)
}

func (c *Controller) GetLottoMaxRegionBreakdown(ctx echo.Context) error {
	var req regionRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return err
	}
	region, err := domain.ParseRegion(req.Region)
	if err != nil {
		return err
	}

	tiers, err := c.lottoMax.RegionBreakdownByDate(ctx.Request().Context(), date, region)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, tiers)
}
