package errx

import (
	"fmt"
	"sync"
)

// Code identifica un error registrado, con el prefijo del módulo ("TEAM_NOT_FOUND")
type Code string

type definition struct {
	t       Type
	status  int
	message string
}

// Registry agrupa los errores de un bounded context bajo un prefijo común
type Registry struct {
	prefix string
	mu     sync.RWMutex
	defs   map[Code]definition
}

// NewRegistry crea un registro con el prefijo dado
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		defs:   make(map[Code]definition),
	}
}

// Register define un código nuevo. Registrar dos veces el mismo código es un error de programación.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) Code {
	full := Code(r.prefix + "_" + code)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[full]; exists {
		panic(fmt.Sprintf("errx: duplicate error code %s", full))
	}
	r.defs[full] = definition{t: t, status: httpStatus, message: message}
	return full
}

// New crea una instancia fresca del error registrado
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	def, ok := r.defs[code]
	r.mu.RUnlock()

	if !ok {
		return New(fmt.Sprintf("unregistered error code %s", code), TypeInternal)
	}

	return &Error{
		Code:       string(code),
		Type:       def.t,
		Message:    def.message,
		HTTPStatus: def.status,
	}
}

// NewWithMessage crea el error registrado reemplazando el mensaje
func (r *Registry) NewWithMessage(code Code, message string) *Error {
	e := r.New(code)
	e.Message = message
	return e
}

// Prefix retorna el prefijo del registro
func (r *Registry) Prefix() string {
	return r.prefix
}
