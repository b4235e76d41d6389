package loginflow_test

import (
	"testing"
	"time"

	"github.com/Sajjadhussain197/umsfront/server/loginflow"
	"github.com/stretchr/testify/require"
)

func setNow(t *testing.T, now time.Time) {
	t.Helper()
	previous := loginflow.NowTimeFunc
	loginflow.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { loginflow.NowTimeFunc = previous })
}

func TestRepo_ConsumeOnce(t *testing.T) {
	repo := loginflow.NewInMemoryRepo(10 * time.Minute)

	require.NoError(t, repo.Upsert("state-1", &loginflow.State{ReturnURL: "/admin/dashboard"}))

	got, err := repo.Consume("state-1")
	require.NoError(t, err)
	require.Equal(t, "/admin/dashboard", got.ReturnURL)
	require.False(t, got.CreatedAt.IsZero())

	_, err = repo.Consume("state-1")
	require.ErrorIs(t, err, loginflow.ErrStateNotFound)
}

func TestRepo_Expiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	setNow(t, now)
	repo := loginflow.NewInMemoryRepo(10 * time.Minute)

	require.NoError(t, repo.Upsert("old", &loginflow.State{}))

	setNow(t, now.Add(10*time.Minute))
	_, err := repo.Consume("old")
	require.ErrorIs(t, err, loginflow.ErrStateExpired)
}

func TestRepo_SweepOnUpsert(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	setNow(t, now)
	repo := loginflow.NewInMemoryRepo(time.Minute)

	require.NoError(t, repo.Upsert("a", &loginflow.State{}))
	require.NoError(t, repo.Upsert("b", &loginflow.State{}))
	require.Equal(t, 2, repo.Len())

	setNow(t, now.Add(2*time.Minute))
	require.NoError(t, repo.Upsert("c", &loginflow.State{}))
	require.Equal(t, 1, repo.Len())
}

func TestRepo_Validation(t *testing.T) {
	repo := loginflow.NewInMemoryRepo(time.Minute)

	require.Error(t, repo.Upsert("", &loginflow.State{}))
	require.Error(t, repo.Upsert("state", nil))
	require.Error(t, repo.Delete(""))

	_, err := repo.Consume("")
	require.ErrorIs(t, err, loginflow.ErrStateNotFound)
}

func TestRepo_Delete(t *testing.T) {
	repo := loginflow.NewInMemoryRepo(time.Minute)

	require.NoError(t, repo.Upsert("state", &loginflow.State{ReturnURL: "/user"}))
	require.NoError(t, repo.Delete("state"))

	_, err := repo.Consume("state")
	require.ErrorIs(t, err, loginflow.ErrStateNotFound)
}
