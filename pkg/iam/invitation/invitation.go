package invitation

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
)

// ============================================================================
// Invitation Entity
// ============================================================================

// InvitationStatus define los posibles estados de una invitación
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusExpired  InvitationStatus = "EXPIRED"
	InvitationStatusRevoked  InvitationStatus = "REVOKED"
)

// Invitation invita a una persona al equipo con un rol y, opcionalmente, un manager
type Invitation struct {
	ID         string           `db:"id" json:"id"`
	TenantID   kernel.TenantID  `db:"tenant_id" json:"tenant_id"`
	Email      string           `db:"email" json:"email"`
	Name       string           `db:"name" json:"name"`
	Role       access.Role      `db:"role" json:"role"`
	ReportsTo  *kernel.UserID   `db:"reports_to" json:"reports_to,omitempty"`
	Token      string           `db:"token" json:"-"`
	Status     InvitationStatus `db:"status" json:"status"`
	InvitedBy  kernel.UserID    `db:"invited_by" json:"invited_by"`
	ExpiresAt  time.Time        `db:"expires_at" json:"expires_at"`
	AcceptedAt *time.Time       `db:"accepted_at" json:"accepted_at,omitempty"`
	AcceptedBy *kernel.UserID   `db:"accepted_by" json:"accepted_by,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsExpired verifica si la invitación ha expirado
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// CanBeAccepted verifica si la invitación puede ser aceptada
func (i *Invitation) CanBeAccepted() bool {
	return i.Status == InvitationStatusPending && !i.IsExpired()
}

// ManagerID retorna el manager propuesto, vacío si el invitado será raíz
func (i *Invitation) ManagerID() string {
	if i.ReportsTo == nil {
		return ""
	}
	return i.ReportsTo.String()
}

// Accept marca la invitación como aceptada por el miembro creado
func (i *Invitation) Accept(memberID kernel.UserID) error {
	if !i.CanBeAccepted() {
		if i.Status == InvitationStatusPending && i.IsExpired() {
			return ErrInvitationExpired()
		}
		return ErrInvitationInvalid().WithDetail("status", string(i.Status))
	}

	now := time.Now()
	i.Status = InvitationStatusAccepted
	i.AcceptedAt = &now
	i.AcceptedBy = &memberID
	i.UpdatedAt = now
	return nil
}

// Revoke revoca la invitación
func (i *Invitation) Revoke() error {
	if i.Status == InvitationStatusAccepted {
		return ErrInvitationAlreadyAccepted()
	}
	if i.Status == InvitationStatusRevoked {
		return ErrInvitationAlreadyRevoked()
	}

	i.Status = InvitationStatusRevoked
	i.UpdatedAt = time.Now()
	return nil
}

// MarkAsExpired marca la invitación como expirada
func (i *Invitation) MarkAsExpired() {
	if i.Status == InvitationStatusPending && i.IsExpired() {
		i.Status = InvitationStatusExpired
		i.UpdatedAt = time.Now()
	}
}

// ============================================================================
// DTOs
// ============================================================================

// InvitationDetailsDTO contiene la información visible de una invitación (sin token)
type InvitationDetailsDTO struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	Name       string           `json:"name"`
	Role       access.Role      `json:"role"`
	ReportsTo  *kernel.UserID   `json:"reports_to,omitempty"`
	Status     InvitationStatus `json:"status"`
	ExpiresAt  time.Time        `json:"expires_at"`
	AcceptedAt *time.Time       `json:"accepted_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ToDTO convierte la entidad Invitation a InvitationDetailsDTO
func (i *Invitation) ToDTO() InvitationDetailsDTO {
	return InvitationDetailsDTO{
		ID:         i.ID,
		Email:      i.Email,
		Name:       i.Name,
		Role:       i.Role,
		ReportsTo:  i.ReportsTo,
		Status:     i.Status,
		ExpiresAt:  i.ExpiresAt,
		AcceptedAt: i.AcceptedAt,
		CreatedAt:  i.CreatedAt,
	}
}

// CreateInvitationRequest representa la petición para crear una invitación
type CreateInvitationRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name" validate:"required,min=2,max=120"`
	Role      string `json:"role" validate:"required,oneof=recruiter manager"`
	ReportsTo string `json:"reports_to,omitempty"`
	ExpiresIn *int   `json:"expires_in,omitempty" validate:"omitempty,min=1,max=90"` // Días hasta expiración
}

// CreateInvitationResponse incluye el token una sola vez, para armar el link
type CreateInvitationResponse struct {
	Invitation InvitationDetailsDTO `json:"invitation"`
	Token      string               `json:"token"`
}

// AcceptInvitationRequest representa la petición para aceptar una invitación
type AcceptInvitationRequest struct {
	Token  string  `json:"token" validate:"required"`
	Mobile *string `json:"mobile,omitempty" validate:"omitempty,min=7,max=20"`
}

// InvitationListResponseDTO para listas de invitaciones
type InvitationListResponseDTO struct {
	Invitations []InvitationDetailsDTO `json:"invitations"`
	Total       int                    `json:"total"`
}

// NewInvitationList arma la respuesta de listado
func NewInvitationList(invitations []*Invitation) InvitationListResponseDTO {
	dtos := make([]InvitationDetailsDTO, 0, len(invitations))
	for _, inv := range invitations {
		dtos = append(dtos, inv.ToDTO())
	}
	return InvitationListResponseDTO{Invitations: dtos, Total: len(dtos)}
}

// ValidateInvitationQuery query de /invitations/public/validate
type ValidateInvitationQuery struct {
	Token string `query:"token" json:"token" validate:"required"`
}

// ValidateInvitationResponse respuesta de validación de invitación
type ValidateInvitationResponse struct {
	Valid      bool                  `json:"valid"`
	Invitation *InvitationDetailsDTO `json:"invitation,omitempty"`
	Message    string                `json:"message,omitempty"`
}

// ============================================================================
// Helper Functions
// ============================================================================

// GenerateInvitationToken genera un token único para la invitación
func GenerateInvitationToken(byteLength int) (string, error) {
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", errx.Wrap(err, "failed to generate invitation token", errx.TypeInternal)
	}
	return hex.EncodeToString(bytes), nil
}

func CalculateExpirationDate(daysFromNow int, defaultDays int) time.Time {
	if daysFromNow <= 0 {
		daysFromNow = defaultDays
	}
	return time.Now().AddDate(0, 0, daysFromNow)
}

// ============================================================================
// Error Registry - Errores específicos de Invitation
// ============================================================================

var ErrRegistry = errx.NewRegistry("INVITATION")

// Códigos de error
var (
	CodeInvitationNotFound        = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Invitation not found")
	CodeInvitationExpired         = ErrRegistry.Register("EXPIRED", errx.TypeBusiness, http.StatusGone, "Invitation has expired")
	CodeInvitationInvalid         = ErrRegistry.Register("INVALID", errx.TypeBusiness, http.StatusBadRequest, "Invitation is not valid")
	CodeInvitationAlreadyAccepted = ErrRegistry.Register("ALREADY_ACCEPTED", errx.TypeBusiness, http.StatusConflict, "Invitation already accepted")
	CodeInvitationAlreadyRevoked  = ErrRegistry.Register("ALREADY_REVOKED", errx.TypeBusiness, http.StatusConflict, "Invitation already revoked")
	CodeInvitationAlreadyExists   = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "A pending invitation already exists for this email")
	CodeMemberAlreadyExists       = ErrRegistry.Register("MEMBER_ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "This email already belongs to a team member")
	CodeRoleNotInvitable          = ErrRegistry.Register("ROLE_NOT_INVITABLE", errx.TypeValidation, http.StatusBadRequest, "Only recruiters and managers can be invited")
	CodeTooManyPending            = ErrRegistry.Register("TOO_MANY_PENDING", errx.TypeBusiness, http.StatusTooManyRequests, "Too many pending invitations for this agency")
)

// Helper functions para crear errores
func ErrInvitationNotFound() *errx.Error {
	return ErrRegistry.New(CodeInvitationNotFound)
}

func ErrInvitationExpired() *errx.Error {
	return ErrRegistry.New(CodeInvitationExpired)
}

func ErrInvitationInvalid() *errx.Error {
	return ErrRegistry.New(CodeInvitationInvalid)
}

func ErrInvitationAlreadyAccepted() *errx.Error {
	return ErrRegistry.New(CodeInvitationAlreadyAccepted)
}

func ErrInvitationAlreadyRevoked() *errx.Error {
	return ErrRegistry.New(CodeInvitationAlreadyRevoked)
}

func ErrInvitationAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeInvitationAlreadyExists)
}

func ErrMemberAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeMemberAlreadyExists)
}

func ErrRoleNotInvitable() *errx.Error {
	return ErrRegistry.New(CodeRoleNotInvitable)
}

func ErrTooManyPending() *errx.Error {
	return ErrRegistry.New(CodeTooManyPending)
}
