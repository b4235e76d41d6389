package loginsession_test

import (
	"sync"
	"testing"
	"time"

	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
	"github.com/Sajjadhussain197/umsfront/server/loginsession"
	"github.com/stretchr/testify/require"
)

func setNow(t *testing.T, now time.Time) {
	t.Helper()
	previous := loginsession.NowTimeFunc
	loginsession.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { loginsession.NowTimeFunc = previous })
}

func newSession(subjectID string, expiresAt time.Time) loginsession.Session {
	return loginsession.Session{
		SubjectID:    subjectID,
		Role:         "user",
		AccessToken:  "access-" + subjectID,
		RefreshToken: "refresh-" + subjectID,
		ExpiresAt:    expiresAt,
	}
}

func TestRepo_CreateGet(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	setNow(t, now)
	repo := loginsession.NewInMemoryLoginSessionRepo()

	id, err := repo.Create(newSession("user-1", now.Add(time.Hour)))
	require.NoError(t, err)
	require.Len(t, id, 27)

	got, err := repo.Get(id)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.SubjectID)
	require.Equal(t, "access-user-1", got.AccessToken)
	require.Equal(t, now, got.CreatedAt)

	other, err := repo.Create(newSession("user-1", now.Add(time.Hour)))
	require.NoError(t, err)
	require.NotEqual(t, id, other)
}

func TestRepo_CreateValidation(t *testing.T) {
	repo := loginsession.NewInMemoryLoginSessionRepo()

	_, err := repo.Create(loginsession.Session{AccessToken: "token"})
	require.Error(t, err)

	_, err = repo.Create(loginsession.Session{SubjectID: "user-1"})
	require.Error(t, err)
}

func TestRepo_GetMissing(t *testing.T) {
	repo := loginsession.NewInMemoryLoginSessionRepo()

	_, err := repo.Get("")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = repo.Get("unknown")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestRepo_Expiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	setNow(t, now)
	repo := loginsession.NewInMemoryLoginSessionRepo()

	id, err := repo.Create(newSession("user-1", now.Add(time.Minute)))
	require.NoError(t, err)

	setNow(t, now.Add(time.Minute))
	_, err = repo.Get(id)
	require.ErrorIs(t, err, apperrors.ErrSessionExpired)

	_, err = repo.Get(id)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound, "expired sessions are removed")
}

func TestRepo_Delete(t *testing.T) {
	repo := loginsession.NewInMemoryLoginSessionRepo()

	id, err := repo.Create(newSession("user-1", time.Time{}))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(id))
	require.NoError(t, repo.Delete(id))
	require.Error(t, repo.Delete(""))

	_, err = repo.Get(id)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestRepo_DeleteBySubject(t *testing.T) {
	repo := loginsession.NewInMemoryLoginSessionRepo()

	first, err := repo.Create(newSession("user-1", time.Time{}))
	require.NoError(t, err)
	second, err := repo.Create(newSession("user-1", time.Time{}))
	require.NoError(t, err)
	kept, err := repo.Create(newSession("user-2", time.Time{}))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBySubject("user-1"))
	require.Error(t, repo.DeleteBySubject(""))

	for _, id := range []string{first, second} {
		_, err := repo.Get(id)
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	}
	_, err = repo.Get(kept)
	require.NoError(t, err)
}

func TestRepo_ConcurrentAccess(t *testing.T) {
	repo := loginsession.NewInMemoryLoginSessionRepo()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.Create(newSession("user-1", time.Time{}))
			if err != nil {
				return
			}
			_, _ = repo.Get(id)
			_ = repo.Delete(id)
		}()
	}
	wg.Wait()
}
