package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry("WIDGET")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "widget not found")

	require.Equal(t, Code("WIDGET_NOT_FOUND"), code)

	first := reg.New(code).WithDetail("id", "42")
	second := reg.New(code)

	assert.Equal(t, "widget not found", first.Message)
	assert.Equal(t, http.StatusNotFound, first.HTTPStatus)
	assert.Equal(t, TypeNotFound, first.Type)
	assert.Equal(t, "42", first.Details["id"])
	assert.Empty(t, second.Details, "instances must not share details")

	assert.Panics(t, func() {
		reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "again")
	})
}

func TestWrapKeepsRegisteredCode(t *testing.T) {
	reg := NewRegistry("ORDER")
	code := reg.Register("CLOSED", TypeBusiness, http.StatusConflict, "order closed")

	wrapped := Wrap(reg.New(code), "failed to ship", TypeInternal)
	require.NotNil(t, wrapped)
	assert.Equal(t, string(code), wrapped.Code)
	assert.Equal(t, http.StatusConflict, wrapped.HTTPStatus)
	assert.True(t, IsCode(wrapped, code))

	plain := Wrap(errors.New("boom"), "failed", TypeInternal)
	assert.Equal(t, "INTERNAL", plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus)

	assert.Nil(t, Wrap(nil, "nothing", TypeInternal))
}

func TestAsAndIsType(t *testing.T) {
	base := New("bad input", TypeValidation)
	chained := fmt.Errorf("handler: %w", base)

	got, ok := As(chained)
	require.True(t, ok)
	assert.Same(t, base, got)
	assert.True(t, IsType(chained, TypeValidation))
	assert.False(t, IsType(chained, TypeNotFound))
	assert.False(t, IsType(errors.New("plain"), TypeValidation))
}

func TestTypeHTTPStatus(t *testing.T) {
	tests := map[Type]int{
		TypeValidation:     http.StatusBadRequest,
		TypeNotFound:       http.StatusNotFound,
		TypeConflict:       http.StatusConflict,
		TypeAuthentication: http.StatusUnauthorized,
		TypeAuthorization:  http.StatusForbidden,
		TypeBusiness:       http.StatusUnprocessableEntity,
		TypeExternal:       http.StatusBadGateway,
		TypeInternal:       http.StatusInternalServerError,
	}
	for typ, status := range tests {
		t.Run(string(typ), func(t *testing.T) {
			assert.Equal(t, status, typ.HTTPStatus())
		})
	}
}
