package teaminfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberCols = []string{
	"id", "tenant_id", "name", "email", "mobile", "role", "reports_to", "status", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (team.MemberRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresMemberRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresMemberRepository_FindByTenant(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows(memberCols).
		AddRow("m1", "t1", "Ana", "ana@agency.io", nil, "admin", nil, "active", now, now).
		AddRow("m2", "t1", "Luis", "luis@agency.io", "555-0101", "manager", "m1", "active", now, now)

	mock.ExpectQuery(`SELECT (.+) FROM team_members WHERE tenant_id = \$1 ORDER BY created_at ASC`).
		WithArgs("t1").
		WillReturnRows(rows)

	members, err := repo.FindByTenant(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, members, 2)

	assert.Nil(t, members[0].ReportsTo)
	assert.Equal(t, access.RoleAdmin, members[0].Role)
	require.NotNil(t, members[1].ReportsTo)
	assert.Equal(t, kernel.UserID("m1"), *members[1].ReportsTo)
	assert.Equal(t, "555-0101", *members[1].Mobile)
	assert.Equal(t, "m1", members[1].Node().ParentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemberRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM team_members WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs("missing", "t1").
		WillReturnRows(sqlmock.NewRows(memberCols))

	_, err := repo.FindByID(context.Background(), "missing", "t1")
	assert.True(t, errx.IsCode(err, team.CodeMemberNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemberRepository_Save(t *testing.T) {
	member := team.Member{
		ID:        "m2",
		TenantID:  "t1",
		Name:      "Luis",
		Email:     "luis@agency.io",
		Role:      access.RoleRecruiter,
		Status:    team.MemberStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	t.Run("upsert", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`INSERT INTO team_members (.+) ON CONFLICT \(id\) DO UPDATE`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Save(context.Background(), member))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`INSERT INTO team_members`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: uniqueEmailConstraint})

		err := repo.Save(context.Background(), member)
		assert.True(t, errx.IsCode(err, team.CodeMemberAlreadyExists))
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`INSERT INTO team_members`).
			WillReturnError(errors.New("connection reset"))

		err := repo.Save(context.Background(), member)
		assert.True(t, errx.IsType(err, errx.TypeInternal))
	})
}

func TestPostgresMemberRepository_UpdateManager(t *testing.T) {
	repo, mock := newMockRepo(t)
	manager := kernel.UserID("m1")

	mock.ExpectExec(`UPDATE team_members SET reports_to = \$1`).
		WithArgs("m1", "m3", "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE team_members SET reports_to = \$1`).
		WithArgs(nil, "ghost", "t1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateManager(context.Background(), "m3", "t1", &manager))

	err := repo.UpdateManager(context.Background(), "ghost", "t1", nil)
	assert.True(t, errx.IsCode(err, team.CodeMemberNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemberRepository_Delete(t *testing.T) {
	t.Run("detaches reports then deletes", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE team_members SET reports_to = NULL`).
			WithArgs("m1", "t1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM team_members`).
			WithArgs("m1", "t1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(context.Background(), "m1", "t1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing member rolls back", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE team_members SET reports_to = NULL`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM team_members`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), "ghost", "t1")
		assert.True(t, errx.IsCode(err, team.CodeMemberNotFound))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
