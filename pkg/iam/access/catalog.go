package access

import (
	"slices"
	"strings"
)

// ============================================================================
// Permission catalog (pantalla de roles)
// ============================================================================

// Este catálogo describe las capacidades que la UI de "Masters > Roles" muestra.
// No participa en Can: la tabla de roles es la única fuente de decisión.

// CatalogModules agrupa las capacidades por módulo
var CatalogModules = map[string][]string{
	"candidates": {"candidates:view", "candidates:create", "candidates:edit", "candidates:delete"},
	"jobs":       {"jobs:view", "jobs:create", "jobs:edit", "jobs:delete"},
	"clients":    {"clients:view", "clients:create", "clients:edit", "clients:delete"},
	"team":       {"team:view", "team:create", "team:edit", "team:delete"},
	"settings":   {"settings:view", "settings:manage"},
}

// CatalogDescriptions describe cada capacidad
var CatalogDescriptions = map[string]string{
	"candidates:view":   "View candidates",
	"candidates:create": "Create candidates",
	"candidates:edit":   "Edit candidates",
	"candidates:delete": "Delete candidates",

	"jobs:view":   "View jobs",
	"jobs:create": "Create jobs",
	"jobs:edit":   "Edit jobs",
	"jobs:delete": "Delete jobs",

	"clients:view":   "View clients",
	"clients:create": "Create clients",
	"clients:edit":   "Edit clients",
	"clients:delete": "Delete clients",

	"team:view":   "View team members",
	"team:create": "Invite team members",
	"team:edit":   "Edit team members",
	"team:delete": "Remove team members",

	"settings:view":   "View settings",
	"settings:manage": "Manage settings",
}

// CatalogEntry es una capacidad con su descripción
type CatalogEntry struct {
	Key         string `json:"key"`
	Module      string `json:"module"`
	Description string `json:"description"`
}

// Catalog retorna una copia del catálogo agrupado por módulo
func Catalog() map[string][]CatalogEntry {
	out := make(map[string][]CatalogEntry, len(CatalogModules))
	for module, keys := range CatalogModules {
		for _, key := range keys {
			out[module] = append(out[module], CatalogEntry{
				Key:         key,
				Module:      module,
				Description: GetCatalogDescription(key),
			})
		}
	}
	return out
}

// GetCatalogDescription returns the description for a catalog key
func GetCatalogDescription(key string) string {
	if desc, exists := CatalogDescriptions[key]; exists {
		return desc
	}
	return "No description available"
}

// ValidateCatalogKey checks that key is "<module>:<capability>" and registered
func ValidateCatalogKey(key string) bool {
	module, _, ok := strings.Cut(key, ":")
	if !ok {
		return false
	}
	return slices.Contains(CatalogModules[module], key)
}
