package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// Error Types
// ============================================================================

// Type clasifica un error para decidir cómo se expone al cliente
type Type string

const (
	TypeValidation     Type = "VALIDATION"
	TypeNotFound       Type = "NOT_FOUND"
	TypeConflict       Type = "CONFLICT"
	TypeAuthentication Type = "AUTHENTICATION"
	TypeAuthorization  Type = "AUTHORIZATION"
	TypeBusiness       Type = "BUSINESS"
	TypeExternal       Type = "EXTERNAL"
	TypeInternal       Type = "INTERNAL"
)

// HTTPStatus returns the default HTTP status for the type
func (t Type) HTTPStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthentication:
		return http.StatusUnauthorized
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ============================================================================
// Error
// ============================================================================

// Error es el error enriquecido que viaja entre capas
type Error struct {
	Code       string         `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail agrega un detalle al error y lo retorna para encadenar
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails agrega varios detalles a la vez
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithCause adjunta el error original
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// New crea un error sin código registrado
func New(message string, t Type) *Error {
	return &Error{
		Code:       string(t),
		Type:       t,
		Message:    message,
		HTTPStatus: t.HTTPStatus(),
	}
}

// Wrap envuelve un error existente. Si ya es un *Error conserva su código.
func Wrap(err error, message string, t Type) *Error {
	if err == nil {
		return nil
	}
	e := New(message, t)
	e.Err = err

	var inner *Error
	if errors.As(err, &inner) {
		e.Code = inner.Code
		e.Type = inner.Type
		e.HTTPStatus = inner.HTTPStatus
	}
	return e
}

// As extrae un *Error de la cadena
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType verifica si algún error de la cadena es del tipo dado
func IsType(err error, t Type) bool {
	e, ok := As(err)
	return ok && e.Type == t
}

// IsCode verifica si algún error de la cadena tiene el código dado
func IsCode(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == string(code)
}
