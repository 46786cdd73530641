package access

import (
	"slices"
	"strings"

	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
)

// ============================================================================
// Route allow-lists
// ============================================================================

const (
	RedirectLogin        = "/login"
	RedirectUnauthorized = "/unauthorized"
)

// RouteRule asocia un patrón de ruta con los roles permitidos.
// Roles vacío significa "cualquier sesión autenticada".
type RouteRule struct {
	Pattern string `json:"pattern"`
	Roles   []Role `json:"roles,omitempty"`
}

var routeRules = []RouteRule{
	{Pattern: "/"},
	{Pattern: "/dashboard"},
	{Pattern: "/unauthorized"},
	{Pattern: "/jobs", Roles: []Role{RoleAdmin, RoleManager, RoleRecruiter}},
	{Pattern: "/clients", Roles: []Role{RoleAdmin, RoleManager}},
	{Pattern: "/team", Roles: []Role{RoleAdmin, RoleManager}},
	{Pattern: "/team/:id", Roles: []Role{RoleAdmin, RoleManager}},
	{Pattern: "/candidates/all", Roles: []Role{RoleAdmin, RoleManager, RoleRecruiter}},
	{Pattern: "/candidates/my-candidates", Roles: []Role{RoleAdmin, RoleManager, RoleRecruiter}},
	{Pattern: "/candidates/:id", Roles: []Role{RoleAdmin, RoleManager, RoleRecruiter}},
	{Pattern: "/candidates/:id/edit", Roles: []Role{RoleAdmin, RoleManager, RoleRecruiter}},
	{Pattern: "/masters", Roles: []Role{RoleAdmin}},
	{Pattern: "/masters/roles", Roles: []Role{RoleAdmin}},
	{Pattern: "/masters/settings", Roles: []Role{RoleAdmin, RoleManager}},
}

// RouteDecision es el resultado de evaluar una navegación
type RouteDecision struct {
	Path     string `json:"path"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

// RouteRules retorna una copia de la tabla de rutas
func RouteRules() []RouteRule {
	out := make([]RouteRule, len(routeRules))
	for i, r := range routeRules {
		out[i] = RouteRule{Pattern: r.Pattern, Roles: slices.Clone(r.Roles)}
	}
	return out
}

// CanAccessRoute is a set-membership check of role against the route allow-list.
// It does not consult the action/subject table. Unknown paths are denied.
func CanAccessRoute(role Role, path string) bool {
	rule, ok := matchRoute(path)
	if !ok || !role.IsValid() {
		return false
	}
	if len(rule.Roles) == 0 {
		return true
	}
	return slices.Contains(rule.Roles, role)
}

// GuardRoute decide una navegación para la sesión actual
func GuardRoute(session *kernel.AuthContext, path string) RouteDecision {
	decision := RouteDecision{Path: path}

	if !session.IsValid() {
		decision.Redirect = RedirectLogin
		recordDecision("route", false)
		return decision
	}

	decision.Allowed = CanAccessRoute(Role(session.Role), path)
	if !decision.Allowed {
		decision.Redirect = RedirectUnauthorized
	}
	recordDecision("route", decision.Allowed)
	return decision
}

// matchRoute busca la regla cuyo patrón coincide segmento a segmento
func matchRoute(path string) (RouteRule, bool) {
	segments := splitPath(path)
	for _, rule := range routeRules {
		if segmentsMatch(splitPath(rule.Pattern), segments) {
			return rule, true
		}
	}
	return RouteRule{}, false
}

func segmentsMatch(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if p != segments[i] {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
