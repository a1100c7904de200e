package controller

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/utils"
	"github.com/spf13/viper"
)

const adminTokenTTL = 24 * time.Hour

type loginRequest struct {
	Secret string `json:"secret" validate:"required"`
}

func (c *Controller) LoginAdmin(ctx echo.Context) error {
	var req loginRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	secret := viper.GetString(constants.ViperSecretKey)
	if secret == "" || subtle.ConstantTimeCompare([]byte(req.Secret), []byte(secret)) != 1 {
		return constants.ErrUnauthorized
	}

	token, err := utils.NewAuthToken(req.Secret, adminTokenTTL)
	if err != nil {
		return err
	}

	ctx.SetCookie(&http.Cookie{
		Name:     constants.CookieKeySecretToken,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(adminTokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	return ctx.NoContent(http.StatusNoContent)
}

type ingestRequest struct {
	Game string `param:"game" validate:"required,game"`
	Date string `query:"date" validate:"required,date"`
}

type ingestResponse struct {
	RunID     string          `json:"run_id"`
	Game      domain.GameName `json:"game"`
	Date      domain.Date     `json:"date"`
	Outcome   string          `json:"outcome"`
	YearAdded bool            `json:"year_added"`
	Error     string          `json:"error,omitempty"`
}

// IngestDraw runs the ingestion workflow for one draw and reports its outcome.
func (c *Controller) IngestDraw(ctx echo.Context) error {
	var req ingestRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	game, err := domain.ParseGameName(req.Game)
	if err != nil {
		return err
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return err
	}

	rep, err := c.ingester.Ingest(ctx.Request().Context(), game, date)
	if err != nil {
		return err
	}

	resp := ingestResponse{
		RunID:     rep.RunID,
		Game:      rep.Game,
		Date:      rep.Date,
		Outcome:   string(rep.Outcome),
		YearAdded: rep.YearAdded,
	}
	if rep.Err != nil {
		resp.Error = rep.Err.Error()
	}

	return ctx.JSON(http.StatusOK, resp)
}
