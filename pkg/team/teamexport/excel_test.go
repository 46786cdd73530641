package teamexport

import (
	"bytes"
	"testing"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/ptrx"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/Abraxas-365/recruitdesk/pkg/team/orgtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func member(id, name string, role access.Role, reportsTo string) *team.Member {
	m := &team.Member{
		ID:     kernel.UserID(id),
		Name:   name,
		Email:  id + "@agency.io",
		Role:   role,
		Status: team.MemberStatusActive,
	}
	if reportsTo != "" {
		m.SetManager(reportsTo)
	}
	return m
}

func TestWriteHierarchy(t *testing.T) {
	members := []*team.Member{
		member("1", "Ana", access.RoleAdmin, ""),
		member("2", "Luis", access.RoleManager, "1"),
		member("3", "Marta", access.RoleRecruiter, "2"),
	}
	members[2].Mobile = ptrx.String("555-0101")

	entries, err := orgtree.Traverse(team.Nodes(members))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHierarchy(&buf, members, entries, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(HierarchySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, hierarchyHeaders, rows[0])
	assert.Equal(t, "Ana", rows[1][0])
	assert.Equal(t, "1", rows[1][5])
	assert.Equal(t, "        Marta", rows[3][0])
	assert.Equal(t, "555-0101", rows[3][3])
	assert.Equal(t, "Luis", rows[3][4])
	assert.Equal(t, "3", rows[3][6])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Generated", "2026-01-02 03:04:05"}, summary[2])
	assert.Equal(t, []string{"Total Members", "3"}, summary[3])
	assert.Equal(t, []string{"Top-level Members", "1"}, summary[4])
	assert.Equal(t, []string{"Role: recruiter", "1"}, summary[8])
}

func TestWriteHierarchy_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHierarchy(&buf, nil, nil, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(HierarchySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
