package invitationinfra

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/access"
	"github.com/Abraxas-365/recruitdesk/pkg/iam/invitation"
	"github.com/Abraxas-365/recruitdesk/pkg/kernel"
	"github.com/Abraxas-365/recruitdesk/pkg/team"
	"github.com/Abraxas-365/recruitdesk/pkg/team/teaminfra"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invitationCols = []string{
	"id", "tenant_id", "email", "name", "role", "reports_to", "token", "status", "invited_by",
	"expires_at", "accepted_at", "accepted_by", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (invitation.InvitationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresInvitationRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresInvitationRepository_FindByToken(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM invitations WHERE token = \$1`).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows(invitationCols).
			AddRow("inv-1", "t1", "eva@agency.io", "Eva", "recruiter", "m1", "tok", "PENDING", "m1",
				now.Add(24*time.Hour), nil, nil, now, now))

	inv, err := repo.FindByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, access.RoleRecruiter, inv.Role)
	assert.Equal(t, "m1", inv.ManagerID())
	assert.Nil(t, inv.AcceptedAt)
	assert.True(t, inv.CanBeAccepted())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInvitationRepository_FindByToken_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM invitations WHERE token = \$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(invitationCols))

	_, err := repo.FindByToken(context.Background(), "nope")
	assert.True(t, errx.IsCode(err, invitation.CodeInvitationNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInvitationRepository_CountPending(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invitations WHERE tenant_id = \$1 AND status = 'PENDING'`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountPendingByTenant(context.Background(), kernel.TenantID("t1"))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInvitationRepository_Save(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO invitations (.+) ON CONFLICT \(id\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), invitation.Invitation{
		ID:        "inv-1",
		TenantID:  "t1",
		Email:     "eva@agency.io",
		Name:      "Eva",
		Role:      access.RoleRecruiter,
		Token:     "tok",
		Status:    invitation.InvitationStatusPending,
		InvitedBy: "m1",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func acceptedPair(now time.Time) (invitation.Invitation, team.Member) {
	memberID := kernel.UserID("m-eva")
	inv := invitation.Invitation{
		ID:         "inv-1",
		TenantID:   "t1",
		Email:      "eva@agency.io",
		Name:       "Eva",
		Role:       access.RoleRecruiter,
		Token:      "tok",
		Status:     invitation.InvitationStatusAccepted,
		InvitedBy:  "m1",
		ExpiresAt:  now.Add(time.Hour),
		AcceptedAt: &now,
		AcceptedBy: &memberID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	member := team.Member{
		ID: memberID, TenantID: "t1", Name: "Eva", Email: "eva@agency.io",
		Role: access.RoleRecruiter, Status: team.MemberStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	return inv, member
}

func TestPostgresInvitationRepository_SaveAcceptance(t *testing.T) {
	t.Run("commits both writes", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		inv, member := acceptedPair(time.Now())

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE invitations SET .+ WHERE id = \$\d+ AND status = 'PENDING'`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO team_members`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.SaveAcceptance(context.Background(), inv, member))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("member insert failure rolls back the invitation", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		inv, member := acceptedPair(time.Now())

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE invitations SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO team_members`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "team_members_tenant_id_email_key"})
		mock.ExpectRollback()

		err := repo.SaveAcceptance(context.Background(), inv, member)
		assert.True(t, errx.IsCode(err, team.CodeMemberAlreadyExists))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invitation no longer pending", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		inv, member := acceptedPair(time.Now())

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE invitations SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveAcceptance(context.Background(), inv, member)
		assert.True(t, errx.IsCode(err, invitation.CodeInvitationInvalid))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInMemoryInvitationRepository_SaveAcceptance(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	inv, member := acceptedPair(now)

	members := teaminfra.NewInMemoryMemberRepository(team.Member{
		ID: "m-other", TenantID: "t1", Name: "Eva Dup", Email: "EVA@agency.io",
		Role: access.RoleRecruiter, Status: team.MemberStatusActive, CreatedAt: now, UpdatedAt: now,
	})
	repo := NewInMemoryInvitationRepository(members)

	pending := inv
	pending.Status, pending.AcceptedAt, pending.AcceptedBy = invitation.InvitationStatusPending, nil, nil
	require.NoError(t, repo.Save(ctx, pending))

	err := repo.SaveAcceptance(ctx, inv, member)
	assert.True(t, errx.IsCode(err, team.CodeMemberAlreadyExists))

	stored, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invitation.InvitationStatusPending, stored.Status)

	require.NoError(t, members.Delete(ctx, "m-other", "t1"))
	require.NoError(t, repo.SaveAcceptance(ctx, inv, member))

	stored, err = repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invitation.InvitationStatusAccepted, stored.Status)

	err = repo.SaveAcceptance(ctx, inv, member)
	assert.True(t, errx.IsCode(err, invitation.CodeInvitationInvalid))
}

func TestPostgresInvitationRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM invitations WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	assert.True(t, errx.IsCode(err, invitation.CodeInvitationNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInMemoryInvitationRepository_PendingAndExpired(t *testing.T) {
	repo := NewInMemoryInvitationRepository(teaminfra.NewInMemoryMemberRepository())
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, invitation.Invitation{
		ID: "a", TenantID: "t1", Email: "a@agency.io", Status: invitation.InvitationStatusPending, ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, repo.Save(ctx, invitation.Invitation{
		ID: "b", TenantID: "t1", Email: "b@agency.io", Status: invitation.InvitationStatusPending, ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(t, repo.Save(ctx, invitation.Invitation{
		ID: "c", TenantID: "t2", Email: "a@agency.io", Status: invitation.InvitationStatusPending, ExpiresAt: now.Add(time.Hour),
	}))

	pending, err := repo.FindPendingByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "a", pending[0].ID)

	exists, err := repo.ExistsPendingForEmail(ctx, "A@AGENCY.IO", "t1")
	require.NoError(t, err)
	assert.True(t, exists)

	expired, err := repo.FindExpired(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "b", expired[0].ID)

	all, err := repo.FindByTenant(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, []string{all[0].ID, all[1].ID})

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.FindByID(ctx, "a")
	assert.True(t, errx.IsCode(err, invitation.CodeInvitationNotFound))
}
