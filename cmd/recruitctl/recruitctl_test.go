package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Abraxas-365/recruitdesk/pkg/resume"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseText(t *testing.T) {
	out, err := run(t, "parse", "--text", "Contact: jane.doe@mail.com")
	require.NoError(t, err)

	var resp resume.ParseResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Fields.Email)
	assert.Equal(t, "jane.doe@mail.com", *resp.Fields.Email)
	assert.Contains(t, resp.Found, "email")
}

func TestParse_RequiresInput(t *testing.T) {
	_, err := run(t, "parse")
	assert.Error(t, err)
}

func TestParse_RejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0o600))

	_, err := run(t, "parse", path)
	assert.Error(t, err)
}

func TestTree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "members.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "1", "name": "Ana", "email": "ana@agency.io", "role": "admin"},
		{"id": "2", "name": "Luis", "email": "luis@agency.io", "role": "manager", "reports_to": "1"},
		{"id": "3", "name": "Marta", "email": "marta@agency.io", "role": "recruiter", "reports_to": "2"}
	]`), 0o600))

	out, err := run(t, "tree", path)
	require.NoError(t, err)
	assert.Equal(t, "Ana (admin) [1]\n  Luis (manager) [1]\n    Marta (recruiter)\n", out)

	xlsx := filepath.Join(dir, "team.xlsx")
	out, err = run(t, "tree", path, "--json", "--xlsx", xlsx)
	require.NoError(t, err)

	var h team.HierarchyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &h))
	assert.Equal(t, 3, h.Total)
	assert.Equal(t, 1, h.Roots)

	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestTree_Cycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "members.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "1", "name": "Ana", "email": "ana@agency.io", "role": "manager", "reports_to": "2"},
		{"id": "2", "name": "Luis", "email": "luis@agency.io", "role": "manager", "reports_to": "1"}
	]`), 0o600))

	_, err := run(t, "tree", path)
	assert.Error(t, err)
}

func TestCan(t *testing.T) {
	out, err := run(t, "can", "recruiter", "read", "team")
	require.NoError(t, err)
	assert.Equal(t, "recruiter read team: true\n", out)

	out, err = run(t, "can", "Manager", "--route", "/masters")
	require.NoError(t, err)
	assert.Equal(t, "manager /masters: false\n", out)

	_, err = run(t, "can", "guest")
	assert.Error(t, err)
}
