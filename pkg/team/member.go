package team

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/team/orgtree"
)

// ============================================================================
// Member Entity
// ============================================================================

// MemberStatus define los posibles estados de un miembro
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

// Member es un miembro del equipo de la agencia y un nodo de la jerarquía.
// ReportsTo nil significa que el miembro es raíz.
type Member struct {
	ID        kernel.UserID   `db:"id" json:"id"`
	TenantID  kernel.TenantID `db:"tenant_id" json:"tenant_id"`
	Name      string          `db:"name" json:"name"`
	Email     string          `db:"email" json:"email"`
	Mobile    *string         `db:"mobile" json:"mobile,omitempty"`
	Role      access.Role     `db:"role" json:"role"`
	ReportsTo *kernel.UserID  `db:"reports_to" json:"reports_to,omitempty"`
	Status    MemberStatus    `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// ManagerID retorna el ID del manager, vacío si es raíz
func (m *Member) ManagerID() string {
	if m.ReportsTo == nil {
		return ""
	}
	return m.ReportsTo.String()
}

// SetManager cambia el manager. Un ID vacío convierte al miembro en raíz.
func (m *Member) SetManager(managerID string) {
	if managerID == "" {
		m.ReportsTo = nil
	} else {
		id := kernel.UserID(managerID)
		m.ReportsTo = &id
	}
	m.UpdatedAt = time.Now()
}

// Node retorna la vista del miembro que usa el evaluador de jerarquía
func (m *Member) Node() orgtree.Node {
	return orgtree.Node{
		ID:       m.ID.String(),
		Name:     m.Name,
		Role:     m.Role.String(),
		ParentID: m.ManagerID(),
	}
}

// Nodes convierte la colección en nodos, respetando el orden recibido
func Nodes(members []*Member) []orgtree.Node {
	nodes := make([]orgtree.Node, 0, len(members))
	for _, m := range members {
		nodes = append(nodes, m.Node())
	}
	return nodes
}

// UpdateProfile aplica los cambios presentes en la petición
func (m *Member) UpdateProfile(req UpdateMemberRequest) {
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Mobile != nil {
		m.Mobile = req.Mobile
	}
	if req.Role != nil {
		m.Role = access.Role(*req.Role)
	}
	if req.Status != nil {
		m.Status = MemberStatus(*req.Status)
	}
	m.UpdatedAt = time.Now()
}

// ============================================================================
// DTOs
// ============================================================================

type MemberDTO struct {
	ID        kernel.UserID  `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Mobile    *string        `json:"mobile,omitempty"`
	Role      access.Role    `json:"role"`
	ReportsTo *kernel.UserID `json:"reports_to,omitempty"`
	Status    MemberStatus   `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

func (m *Member) ToDTO() MemberDTO {
	return MemberDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Mobile:    m.Mobile,
		Role:      m.Role,
		ReportsTo: m.ReportsTo,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}

// CreateMemberRequest alta directa de un miembro (las invitaciones usan la misma ruta)
type CreateMemberRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=120"`
	Email     string  `json:"email" validate:"required,email"`
	Mobile    *string `json:"mobile,omitempty" validate:"omitempty,min=7,max=20"`
	Role      string  `json:"role" validate:"required,oneof=admin manager recruiter"`
	ReportsTo string  `json:"reports_to,omitempty"`
}

type UpdateMemberRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Mobile *string `json:"mobile,omitempty" validate:"omitempty,min=7,max=20"`
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=admin manager recruiter"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// ReassignRequest cambia el manager; reports_to vacío convierte al miembro en raíz
type ReassignRequest struct {
	ReportsTo string `json:"reports_to"`
}

// MoveRequest es el resultado de soltar active sobre over en el organigrama
type MoveRequest struct {
	ActiveID string `json:"active_id" validate:"required"`
	OverID   string `json:"over_id"`
}

type MemberListResponse struct {
	Members []MemberDTO `json:"members"`
	Total   int         `json:"total"`
}

type HierarchyResponse struct {
	Entries []orgtree.Entry `json:"entries"`
	Roots   int             `json:"roots"`
	Total   int             `json:"total"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("TEAM")

var (
	CodeMemberNotFound      = ErrRegistry.Register("MEMBER_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Team member not found")
	CodeMemberAlreadyExists = ErrRegistry.Register("MEMBER_ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "A team member with this email already exists")
	CodeInvalidRole         = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Unknown role")
	CodeManagerNotFound     = ErrRegistry.Register("MANAGER_NOT_FOUND", errx.TypeValidation, http.StatusBadRequest, "Manager is not a member of this agency")
	CodeExportFailed        = ErrRegistry.Register("EXPORT_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to export team hierarchy")
)

func ErrMemberNotFound() *errx.Error {
	return ErrRegistry.New(CodeMemberNotFound)
}

func ErrMemberAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeMemberAlreadyExists)
}

func ErrInvalidRole() *errx.Error {
	return ErrRegistry.New(CodeInvalidRole)
}

func ErrManagerNotFound() *errx.Error {
	return ErrRegistry.New(CodeManagerNotFound)
}

func ErrExportFailed() *errx.Error {
	return ErrRegistry.New(CodeExportFailed)
}
