package kernel

import "github.com/google/uuid"

// ============================================================================
// Typed identifiers
// ============================================================================

// TenantID identifica a una agencia
type TenantID string

func NewTenantID(id string) TenantID { return TenantID(id) }
func (id TenantID) String() string   { return string(id) }
func (id TenantID) IsEmpty() bool    { return id == "" }

// UserID identifica a un miembro del equipo
type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (id UserID) String() string { return string(id) }
func (id UserID) IsEmpty() bool  { return id == "" }

// GenerateID crea un identificador aleatorio (UUID v4)
func GenerateID() string {
	return uuid.NewString()
}
