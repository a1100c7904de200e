package controller

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/service/ingest"
)

type LottoMaxService interface {
	Years(ctx context.Context) ([]int, error)
	ResultsByYear(ctx context.Context, year int) ([]domain.LottoMaxResult, error)
	BreakdownByDate(ctx context.Context, date domain.Date) (*domain.LottoMaxBreakdown, error)
	RegionBreakdownByDate(ctx context.Context, date domain.Date, region domain.Region) ([]domain.NumbersMatched, error)
}

type DailyGrandService interface {
	Years(ctx context.Context) ([]int, error)
	ResultsByYear(ctx context.Context, year int) ([]domain.DailyGrandResult, error)
	BreakdownByDate(ctx context.Context, date domain.Date) (*domain.DailyGrandBreakdown, error)
}

type SixFortyNineService interface {
	Years(ctx context.Context) ([]int, error)
	ResultsByYear(ctx context.Context, year int) ([]domain.SixFortyNineResult, error)
	BreakdownByDate(ctx context.Context, date domain.Date) (*domain.Breakdown, error)
}

type Ingester interface {
	Ingest(ctx context.Context, game domain.GameName, date domain.Date) (ingest.Report, error)
}

type Controller struct {
	lottoMax     LottoMaxService
	dailyGrand   DailyGrandService
	sixFortyNine SixFortyNineService
	ingester     Ingester
	version      string
}

func NewController(
	lottoMax LottoMaxService,
	dailyGrand DailyGrandService,
	sixFortyNine SixFortyNineService,
	ingester Ingester,
	version string,
) *Controller {
	return &Controller{
		lottoMax:     lottoMax,
		dailyGrand:   dailyGrand,
		sixFortyNine: sixFortyNine,
		ingester:     ingester,
		version:      version,
	}
}

type yearRequest struct {
	Year int `param:"year" validate:"gte=1982,lte=2100"`
}

type dateRequest struct {
	Date string `param:"date" validate:"required,date"`
}

type regionRequest struct {
	Date   string `param:"date" validate:"required,date"`
	Region string `param:"region" validate:"required,region"`
}

type yearsResponse struct {
	Game  domain.GameName `json:"game"`
	Years []int           `json:"years"`
}

func bind(ctx echo.Context, req interface{}) error {
	if err := ctx.Bind(req); err != nil {
		return err
	}
	return ctx.Validate(req)
}
