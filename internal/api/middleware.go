package api

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/utils"
	"github.com/spf13/viper"
)

// RapidAPIMiddleware rejects requests that did not come through the RapidAPI proxy.
func (svc *APIService) RapidAPIMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		secret := ctx.Request().Header.Get(constants.HeaderRapidAPIProxySecret)
		if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(svc.rapidAPISecret)) != 1 {
			return constants.ErrUnauthorized
		}
		return next(ctx)
	}
}

func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(constants.CookieKeySecretToken)
		if err != nil {
			return constants.ErrMissingAuthCookie
		}

		token, err := utils.ParseAuthToken(cookie.Value)
		if err != nil {
			return err
		}

		if token.Secret == "" || token.Secret != viper.GetString(constants.ViperSecretKey) {
			return constants.ErrUnauthorized
		}

		return next(ctx)
	}
}
