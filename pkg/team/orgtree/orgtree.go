// Package orgtree evaluates the team reporting hierarchy: roots, pre-order
// traversal with direct-report counts, and reassignment of managers.
//
// Every function is a pure computation over the slice it receives. Callers own
// the collection and persist whatever Reassign returns.
package orgtree

import (
	"net/http"
	"slices"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
)

// Node es la vista mínima de un miembro que el evaluador necesita
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	ParentID string `json:"parent_id,omitempty"`
}

// IsRoot reports whether the node has no manager
func (n Node) IsRoot() bool {
	return n.ParentID == ""
}

// Entry es un nodo en orden de recorrido, listo para renderizar con sangría
type Entry struct {
	Node          Node `json:"node"`
	Depth         int  `json:"depth"`
	DirectReports int  `json:"direct_reports"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("HIERARCHY")

var (
	CodeNodeNotFound   = ErrRegistry.Register("NODE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Team member not found in hierarchy")
	CodeParentNotFound = ErrRegistry.Register("PARENT_NOT_FOUND", errx.TypeValidation, http.StatusBadRequest, "New manager does not exist")
	CodeCycle          = ErrRegistry.Register("CYCLE", errx.TypeBusiness, http.StatusConflict, "Reassignment would create a reporting cycle")
	CodeMalformed      = ErrRegistry.Register("MALFORMED", errx.TypeBusiness, http.StatusUnprocessableEntity, "Reporting hierarchy is malformed")
)

func ErrNodeNotFound() *errx.Error   { return ErrRegistry.New(CodeNodeNotFound) }
func ErrParentNotFound() *errx.Error { return ErrRegistry.New(CodeParentNotFound) }
func ErrCycle() *errx.Error          { return ErrRegistry.New(CodeCycle) }
func ErrMalformed() *errx.Error      { return ErrRegistry.New(CodeMalformed) }

// ============================================================================
// Index
// ============================================================================

type index struct {
	nodes    []Node
	position map[string]int
	children map[string][]int
}

// buildIndex agrupa hijos por padre respetando el orden de origen
func buildIndex(nodes []Node) (*index, error) {
	idx := &index{
		nodes:    nodes,
		position: make(map[string]int, len(nodes)),
		children: make(map[string][]int),
	}

	for i, n := range nodes {
		if _, dup := idx.position[n.ID]; dup {
			return nil, ErrMalformed().
				WithDetail("reason", "duplicate_id").
				WithDetail("node_id", n.ID)
		}
		idx.position[n.ID] = i
	}

	for i, n := range nodes {
		if n.ParentID != "" {
			idx.children[n.ParentID] = append(idx.children[n.ParentID], i)
		}
	}
	return idx, nil
}

// isTopLevel: sin padre, o con un padre que no está en la colección
func (idx *index) isTopLevel(n Node) bool {
	if n.ParentID == "" {
		return true
	}
	_, exists := idx.position[n.ParentID]
	return !exists
}

// ============================================================================
// Queries
// ============================================================================

// Roots returns the nodes without a manager, in source order. Nodes whose
// manager is missing from the collection are included as well.
func Roots(nodes []Node) []Node {
	position := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		position[n.ID] = struct{}{}
	}

	roots := []Node{}
	for _, n := range nodes {
		if _, ok := position[n.ParentID]; n.ParentID == "" || !ok {
			roots = append(roots, n)
		}
	}
	return roots
}

// DirectReports counts the nodes whose parent reference equals id
func DirectReports(nodes []Node, id string) int {
	count := 0
	for _, n := range nodes {
		if n.ParentID == id && id != "" {
			count++
		}
	}
	return count
}

// Children returns the direct reports of id in source order
func Children(nodes []Node, id string) []Node {
	out := []Node{}
	for _, n := range nodes {
		if n.ParentID == id && id != "" {
			out = append(out, n)
		}
	}
	return out
}

// Traverse returns a depth-first pre-order walk of the forest. Children follow
// source order. A node reachable only through a cycle, or a repeated ID,
// makes the whole result a malformed-hierarchy error.
func Traverse(nodes []Node) ([]Entry, error) {
	idx, err := buildIndex(nodes)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(nodes))
	visited := make([]bool, len(nodes))

	var walk func(i, depth int) error
	walk = func(i, depth int) error {
		if visited[i] {
			return ErrMalformed().
				WithDetail("reason", "cycle").
				WithDetail("node_id", nodes[i].ID)
		}
		visited[i] = true

		n := nodes[i]
		entries = append(entries, Entry{
			Node:          n,
			Depth:         depth,
			DirectReports: len(idx.children[n.ID]),
		})

		for _, child := range idx.children[n.ID] {
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for i, n := range nodes {
		if !idx.isTopLevel(n) {
			continue
		}
		if err := walk(i, 0); err != nil {
			return nil, err
		}
	}

	if len(entries) != len(nodes) {
		unreached := []string{}
		for i, seen := range visited {
			if !seen {
				unreached = append(unreached, nodes[i].ID)
			}
		}
		return nil, ErrMalformed().
			WithDetail("reason", "cycle").
			WithDetail("node_ids", unreached)
	}

	return entries, nil
}

// ============================================================================
// Mutation
// ============================================================================

// WouldCreateCycle reports whether pointing id at newParentID closes a loop,
// i.e. newParentID is id itself or one of its descendants.
func WouldCreateCycle(nodes []Node, id, newParentID string) bool {
	if newParentID == "" {
		return false
	}
	if newParentID == id {
		return true
	}

	parentOf := make(map[string]string, len(nodes))
	for _, n := range nodes {
		parentOf[n.ID] = n.ParentID
	}

	// sube desde el nuevo padre; si llega a id, id es ancestro del nuevo padre
	seen := map[string]bool{}
	for cur := newParentID; cur != ""; cur = parentOf[cur] {
		if cur == id {
			return true
		}
		if seen[cur] {
			// ciclo preexistente que no pasa por id
			return false
		}
		seen[cur] = true
	}
	return false
}

// Reassign returns a copy of nodes where id reports to newParentID. An empty
// newParentID makes the node a root. The input slice is not modified.
func Reassign(nodes []Node, id, newParentID string) ([]Node, error) {
	pos := slices.IndexFunc(nodes, func(n Node) bool { return n.ID == id })
	if pos < 0 {
		return nil, ErrNodeNotFound().WithDetail("node_id", id)
	}

	if newParentID != "" && !slices.ContainsFunc(nodes, func(n Node) bool { return n.ID == newParentID }) {
		return nil, ErrParentNotFound().WithDetail("parent_id", newParentID)
	}

	if WouldCreateCycle(nodes, id, newParentID) {
		return nil, ErrCycle().
			WithDetail("node_id", id).
			WithDetail("parent_id", newParentID)
	}

	out := slices.Clone(nodes)
	out[pos].ParentID = newParentID
	return out, nil
}
