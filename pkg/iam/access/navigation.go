package access

import (
	"slices"

	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
)

// NavItem es una entrada del menú principal
type NavItem struct {
	Label    string    `json:"label"`
	Path     string    `json:"path"`
	Children []NavItem `json:"children,omitempty"`
}

type navEntry struct {
	item    NavItem
	action  string
	subject string
}

var navigation = []navEntry{
	{item: NavItem{Label: "Dashboard", Path: "/dashboard"}},
	{item: NavItem{Label: "Jobs", Path: "/jobs"}, action: ActionRead, subject: SubjectJobs},
	{item: NavItem{Label: "Team", Path: "/team"}, action: ActionRead, subject: SubjectTeam},
	{
		item: NavItem{Label: "Candidates", Path: "/candidates/all", Children: []NavItem{
			{Label: "All Candidates", Path: "/candidates/all"},
			{Label: "My Candidates", Path: "/candidates/my-candidates"},
		}},
		action:  ActionRead,
		subject: SubjectCandidates,
	},
	{item: NavItem{Label: "Masters", Path: "/masters"}, action: ActionRead, subject: SubjectMasters},
}

// Navigation returns the menu visible to the session.
// No session yields an empty menu.
func Navigation(session *kernel.AuthContext) []NavItem {
	items := []NavItem{}
	if !session.IsValid() {
		return items
	}

	role := Role(session.Role)
	for _, entry := range navigation {
		if entry.action != "" && !Can(role, entry.action, entry.subject) {
			continue
		}
		item := entry.item
		item.Children = slices.Clone(entry.item.Children)
		items = append(items, item)
	}
	return items
}
