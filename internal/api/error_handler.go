package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/logger"
)

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	msg := err.Error()
	code := http.StatusInternalServerError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	} else {
		for e := err; e != nil; e = errors.Unwrap(e) {
			if ce, ok := e.(*constants.CodedError); ok {
				code = ce.Code()
				break
			}
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error(c.Request().Context(), "request failed", "path", c.Path(), "error", msg)
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
