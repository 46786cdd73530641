package httpx

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var ErrRegistry = errx.NewRegistry("REQUEST")

var (
	CodeInvalidBody  = ErrRegistry.Register("INVALID_BODY", errx.TypeValidation, http.StatusBadRequest, "Invalid request body")
	CodeInvalidQuery = ErrRegistry.Register("INVALID_QUERY", errx.TypeValidation, http.StatusBadRequest, "Invalid query parameters")
	CodeValidation   = ErrRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Request validation failed")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator retorna la instancia compartida; usa el nombre json de cada campo en los errores
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// BindJSON parsea el body en dst y lo valida con las etiquetas validate
func BindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return ErrRegistry.New(CodeInvalidBody).WithCause(err)
	}
	return Validate(dst)
}

// BindQuery parsea los query params en dst (etiquetas query) y los valida
func BindQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return ErrRegistry.New(CodeInvalidQuery).WithCause(err)
	}
	return Validate(dst)
}

// Validate valida una estructura y traduce los errores a detalles campo -> regla
func Validate(dst any) error {
	err := Validator().Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrRegistry.New(CodeValidation).WithCause(err)
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details[fe.Field()] = rule
	}
	return ErrRegistry.New(CodeValidation).WithDetails(details)
}
