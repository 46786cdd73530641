package access

import (
	"slices"

	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
)

// ============================================================================
// Permission rules
// ============================================================================

const (
	ActionManage = "manage"
	ActionRead   = "read"
	ActionWrite  = "write"

	SubjectAll        = "all"
	SubjectCandidates = "candidates"
	SubjectJobs       = "jobs"
	SubjectClients    = "clients"
	SubjectTeam       = "team"
	SubjectReports    = "reports"
	SubjectMasters    = "masters"
)

// PermissionRule es un par (acción, sujeto)
type PermissionRule struct {
	Action  string `json:"action"`
	Subject string `json:"subject"`
}

// IsWildcard reports whether the rule grants every action on every subject
func (p PermissionRule) IsWildcard() bool {
	return p.Action == ActionManage && p.Subject == SubjectAll
}

// rolePermissions se construye una sola vez y nunca se modifica.
// Solo se accede a través de Can / RulesFor.
var rolePermissions = map[Role][]PermissionRule{
	RoleAdmin: {
		{Action: ActionManage, Subject: SubjectAll},
	},
	RoleManager: {
		{Action: ActionRead, Subject: SubjectCandidates},
		{Action: ActionWrite, Subject: SubjectCandidates},
		{Action: ActionRead, Subject: SubjectJobs},
		{Action: ActionWrite, Subject: SubjectJobs},
		{Action: ActionRead, Subject: SubjectTeam},
		{Action: ActionWrite, Subject: SubjectTeam},
		{Action: ActionRead, Subject: SubjectReports},
	},
	RoleRecruiter: {
		{Action: ActionRead, Subject: SubjectCandidates},
		{Action: ActionWrite, Subject: SubjectCandidates},
		{Action: ActionRead, Subject: SubjectJobs},
		{Action: ActionRead, Subject: SubjectTeam},
	},
}

// Can answers whether role may perform action on subject.
// Unknown roles have no rules and are always denied.
func Can(role Role, action, subject string) bool {
	rules, ok := rolePermissions[role]
	if !ok {
		return false
	}

	if slices.ContainsFunc(rules, PermissionRule.IsWildcard) {
		return true
	}

	return slices.Contains(rules, PermissionRule{Action: action, Subject: subject})
}

// Authorize evalúa la sesión actual. Sin sesión se deniega igual que con un rol desconocido.
func Authorize(session *kernel.AuthContext, action, subject string) bool {
	allowed := Can(Role(session.CurrentRole()), action, subject)
	recordDecision("permission", allowed)
	return allowed
}

// RulesFor retorna una copia de las reglas del rol
func RulesFor(role Role) []PermissionRule {
	return slices.Clone(rolePermissions[role])
}

// HasWildcard reports whether the role holds the manage/all rule
func HasWildcard(role Role) bool {
	return slices.ContainsFunc(rolePermissions[role], PermissionRule.IsWildcard)
}
