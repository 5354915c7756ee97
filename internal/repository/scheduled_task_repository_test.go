package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/repository"
	"github.com/technet-isp/backoffice-api/internal/testutil"
)

func TestScheduledTaskListActive(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repository.NewScheduledTaskRepository(db)
	companyA := testutil.CreateCompany(t, db, "Tenant A")
	companyB := testutil.CreateCompany(t, db, "Tenant B")

	ctx := testutil.ScopeAll()
	active := &domain.ScheduledTask{
		CompanyID: companyA.ID,
		Name:      "nightly device sweep",
		Type:      "monitoring",
		Frequency: "daily",
	}
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, &domain.ScheduledTask{
		CompanyID: companyA.ID,
		Name:      "paused export",
		Type:      "export",
		Frequency: "weekly",
		Status:    domain.ScheduledTaskStatusInactive,
	}))
	require.NoError(t, repo.Create(ctx, &domain.ScheduledTask{
		CompanyID: companyB.ID,
		Name:      "other tenant sweep",
		Type:      "monitoring",
		Frequency: "daily",
	}))

	tasks, err := repo.ListActive(testutil.ScopeCompany(companyA.ID))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, active.ID, tasks[0].ID)
}

func TestScheduledTaskMarkRun(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repository.NewScheduledTaskRepository(db)
	company := testutil.CreateCompany(t, db, "Tenant A")

	ctx := testutil.ScopeCompany(company.ID)
	task := &domain.ScheduledTask{
		CompanyID: company.ID,
		Name:      "nightly device sweep",
		Type:      "monitoring",
		Frequency: "daily",
	}
	require.NoError(t, repo.Create(ctx, task))

	ranAt := time.Date(2026, 8, 28, 3, 0, 0, 0, time.UTC)
	next := ranAt.Add(24 * time.Hour)
	require.NoError(t, repo.MarkRun(ctx, task.ID, ranAt, &next, domain.JSONMap{"devices_checked": 8}))

	loaded, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.LastRun)
	assert.WithinDuration(t, ranAt, *loaded.LastRun, time.Second)
	require.NotNil(t, loaded.NextRun)
	assert.WithinDuration(t, next, *loaded.NextRun, time.Second)
	assert.EqualValues(t, 8, loaded.Results["devices_checked"])
}
