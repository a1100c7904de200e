package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
)

type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the "game", "region" and "date" tags next to the
// built-in ones.
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("game", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseGameName(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRegion(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	})
	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%s failed on %q: %w", fe.Field(), fe.Tag(), constants.ErrBadRequest)
		}
		return fmt.Errorf("%w: %s", constants.ErrBadRequest, err.Error())
	}
	return nil
}

// Binder binds path and query parameters for every method, then the body.
type Binder struct {
	echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	if err := b.BindPathParams(c, i); err != nil {
		return badRequest(err)
	}
	if err := b.BindQueryParams(c, i); err != nil {
		return badRequest(err)
	}
	if err := b.BindBody(c, i); err != nil {
		return badRequest(err)
	}
	return nil
}

func badRequest(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusBadRequest {
		return fmt.Errorf("%v: %w", he.Message, constants.ErrBadRequest)
	}
	return err
}

// JSONSerializer encodes responses with sonic.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrBadRequest, err.Error())
	}
	return nil
}
