package biz

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/orghub/internal/authz"
	"github.com/looplj/orghub/internal/objects"
	"github.com/looplj/orghub/internal/store/pg"
)

func newTestOrgService(t *testing.T) (*OrgService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := pg.NewStore(db)

	return NewOrgService(OrgServiceParams{
		Store:    store,
		Resolver: authz.NewResolver(store),
	}), mock
}

func expectOrganization(mock sqlmock.Sqlmock, orgID int64, workosOrgID, title string, subIDs ...int64) {
	mock.ExpectQuery("select id, workos_org_id, title").
		WithArgs(orgID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "workos_org_id", "title"}).
			AddRow(orgID, workosOrgID, title))

	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range subIDs {
		rows.AddRow(id)
	}

	mock.ExpectQuery("from sub_organizations").
		WithArgs(orgID).
		WillReturnRows(rows)
}

func TestOrgService_GetOrganizationContext(t *testing.T) {
	claims := &objects.Claims{
		WorkOSUserID: "user_1",
		Email:        "u1@example.com",
		Permissions:  []string{"reports:read"},
		Organizations: []objects.OrganizationMembership{
			{WorkOSOrgID: "org_abc", Role: "Admin"},
		},
	}

	t.Run("admin membership resolves without rbac lookups", func(t *testing.T) {
		svc, mock := newTestOrgService(t)
		expectOrganization(mock, 1, "org_abc", "Acme", 7, 9)

		orgCtx, err := svc.GetOrganizationContext(context.Background(), claims, 1)
		require.NoError(t, err)
		require.NotNil(t, orgCtx)

		assert.Equal(t, int64(1), orgCtx.OrganizationID)
		assert.Equal(t, "org_abc", orgCtx.WorkOSOrgID)
		assert.Equal(t, "Acme", orgCtx.Title)
		assert.Equal(t, []int64{7, 9}, orgCtx.SubOrganizationIDs)
		assert.Equal(t, "Admin", orgCtx.Role)
		assert.Equal(t, "admin", orgCtx.NormalizedRole)
		assert.True(t, orgCtx.IsAdmin)
		assert.True(t, orgCtx.IsClientAdmin)
		assert.False(t, orgCtx.IsAppAdmin)
		assert.Nil(t, orgCtx.AppRole)
		assert.Equal(t, objects.HierarchyClientAdmin, orgCtx.HierarchyLevel)
		assert.Equal(t, []string{"*:*", "reports:read"}, orgCtx.Permissions)
		assert.Equal(t, "user_1", orgCtx.UserID)
		assert.Equal(t, "u1@example.com", orgCtx.Email)
		assert.Same(t, claims, orgCtx.Claims)

		// The admin branch must never touch the rbac tables.
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown organization fails NoOrganization", func(t *testing.T) {
		svc, mock := newTestOrgService(t)

		mock.ExpectQuery("select id, workos_org_id, title").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "workos_org_id", "title"}))

		orgCtx, err := svc.GetOrganizationContext(context.Background(), claims, 99)
		require.Error(t, err)
		assert.Nil(t, orgCtx)
		assert.Equal(t, objects.KindNoOrganization, objects.KindOf(err))
	})

	t.Run("no membership fails OrganizationAccessDenied", func(t *testing.T) {
		svc, mock := newTestOrgService(t)
		expectOrganization(mock, 2, "org_other", "Other", 3)

		orgCtx, err := svc.GetOrganizationContext(context.Background(), claims, 2)
		require.Error(t, err)
		assert.Nil(t, orgCtx)
		assert.Equal(t, objects.KindOrganizationAccessDenied, objects.KindOf(err))
	})
}

func TestOrgService_ListOrganizations(t *testing.T) {
	claims := &objects.Claims{
		WorkOSUserID: "user_1",
		Organizations: []objects.OrganizationMembership{
			{WorkOSOrgID: "org_abc", Role: "member"},
			{WorkOSOrgID: "org_gone", Role: "member"},
		},
	}

	svc, mock := newTestOrgService(t)

	mock.ExpectQuery("select id").
		WithArgs("org_abc").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	expectOrganization(mock, 1, "org_abc", "Acme", 7)

	mock.ExpectQuery("select id").
		WithArgs("org_gone").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	orgs, err := svc.ListOrganizations(context.Background(), claims)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "Acme", orgs[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
