package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftoledo/fiberbudget/internal/store"
	"github.com/ftoledo/fiberbudget/internal/validate"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	s := New(st)
	s.now = func() time.Time {
		return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	}
	return s
}

func loginAs(t *testing.T, s *Session, username, password string) {
	t.Helper()
	_, err := s.Login(context.Background(), username, password)
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	s := newTestSession(t)

	u, err := s.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, store.LevelAdministrator, u.Level)
	assert.True(t, s.LoggedIn())
	assert.NotEmpty(t, s.Token())
}

func TestLogin_GenericError(t *testing.T) {
	s := newTestSession(t)

	// Wrong password and unknown user must be indistinguishable.
	_, errWrongPass := s.Login(context.Background(), "admin", "nope")
	_, errNoUser := s.Login(context.Background(), "ghost", "nope")

	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
	assert.False(t, s.LoggedIn())
}

func TestLogout(t *testing.T) {
	s := newTestSession(t)
	loginAs(t, s, "admin", "admin123")

	s.Logout()

	assert.False(t, s.LoggedIn())
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	s := newTestSession(t)
	loginAs(t, s, "admin", "admin123")

	c := s.Current()
	require.NotNil(t, c)
	c.Level = store.LevelBasic

	assert.Equal(t, store.LevelAdministrator, s.Current().Level, "mutating the copy must not touch the session")
}

func TestLevelPredicates(t *testing.T) {
	assert.True(t, CanManageUsers(store.LevelAdministrator))
	assert.False(t, CanManageUsers(store.LevelAdvanced))
	assert.False(t, CanManageUsers(store.LevelBasic))

	assert.True(t, CanSeeAdvancedReports(store.LevelAdministrator))
	assert.True(t, CanSeeAdvancedReports(store.LevelAdvanced))
	assert.False(t, CanSeeAdvancedReports(store.LevelBasic))

	assert.True(t, CanDeleteCalculations(store.LevelAdministrator))
	assert.False(t, CanDeleteCalculations(store.LevelAdvanced))
}

func TestUserManagement_Gating(t *testing.T) {
	s := newTestSession(t)

	// Logged out.
	err := s.AddUser(context.Background(), store.User{Username: "x", Password: "pw", Level: store.LevelBasic})
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	// Non-admin.
	loginAs(t, s, "user_basic", "basic123")
	err = s.AddUser(context.Background(), store.User{Username: "x", Password: "pw", Level: store.LevelBasic})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Users(context.Background())
	assert.ErrorIs(t, err, ErrForbidden)
	err = s.RemoveUser(context.Background(), "admin")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAddUser_Duplicate(t *testing.T) {
	s := newTestSession(t)
	loginAs(t, s, "admin", "admin123")

	err := s.AddUser(context.Background(), store.User{Username: "user_basic", Password: "other", Level: store.LevelBasic})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// Store unchanged: original credentials still work.
	_, err = s.Login(context.Background(), "user_basic", "basic123")
	assert.NoError(t, err)
}

func TestSelfTargetRejected(t *testing.T) {
	s := newTestSession(t)
	loginAs(t, s, "admin", "admin123")

	assert.ErrorIs(t, s.RemoveUser(context.Background(), "admin"), ErrSelfTarget)
	assert.ErrorIs(t, s.AddUser(context.Background(), store.User{Username: "admin", Password: "pw", Level: store.LevelBasic}), ErrSelfTarget)

	// The account is still there.
	_, err := s.Login(context.Background(), "admin", "admin123")
	assert.NoError(t, err)
}

func TestSelfTargetRejected_DecomposedSpelling(t *testing.T) {
	s := newTestSession(t)
	loginAs(t, s, "admin", "admin123")

	// é as a single codepoint vs e + combining acute.
	composed := "josé"
	decomposed := "josé"
	require.NoError(t, s.AddUser(context.Background(), store.User{Username: composed, Password: "pw", Level: store.LevelAdministrator}))

	// The guard must apply the store's key normalization: a decomposed
	// spelling of the actor's own name is still a self-target.
	loginAs(t, s, composed, "pw")
	assert.ErrorIs(t, s.RemoveUser(context.Background(), decomposed), ErrSelfTarget)
	assert.ErrorIs(t, s.AddUser(context.Background(), store.User{Username: decomposed, Password: "pw", Level: store.LevelBasic}), ErrSelfTarget)

	// The account survived.
	_, err := s.Login(context.Background(), composed, "pw")
	assert.NoError(t, err)
}

func TestRemoveUser(t *testing.T) {
	s := newTestSession(t)
	loginAs(t, s, "admin", "admin123")

	require.NoError(t, s.RemoveUser(context.Background(), "user_basic"))
	assert.ErrorIs(t, s.RemoveUser(context.Background(), "user_basic"), store.ErrNotFound)
}

func TestRecordCalculation(t *testing.T) {
	s := newTestSession(t)
	loginAs(t, s, "user_basic", "basic123")

	rec, err := s.RecordCalculation(context.Background(), validate.Fields{
		ProjectName:   "Link-A",
		Distance:      12.34,
		SplitterLoss1: 3.5,
		Splitters1:    2,
		FusionSplices: 4,
	})
	require.NoError(t, err)

	assert.InDelta(t, -3.868, rec.FinalSignal, 1e-9)
	assert.Equal(t, "user_basic", rec.CalculatedBy)
	assert.Equal(t, time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC), rec.CalculatedAt)
	assert.NotZero(t, rec.ID)
}

func TestRecordCalculation_InvalidFields(t *testing.T) {
	s := newTestSession(t)
	loginAs(t, s, "user_basic", "basic123")

	_, err := s.RecordCalculation(context.Background(), validate.Fields{
		ProjectName: "Link-B",
		Distance:    123.45, // 6 characters
	})
	var ferr *validate.FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, validate.FieldDistance, ferr.Field)

	// Nothing was persisted.
	calcs, err := s.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, calcs)
}

func TestRecordCalculation_UnknownActor(t *testing.T) {
	s := newTestSession(t)

	rec, err := s.RecordCalculation(context.Background(), validate.Fields{
		ProjectName: "Anon",
		Distance:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, store.UnknownActor, rec.CalculatedBy)
}

func TestHistoryAndDelete(t *testing.T) {
	s := newTestSession(t)
	loginAs(t, s, "admin", "admin123")

	rec, err := s.RecordCalculation(context.Background(), validate.Fields{ProjectName: "P", Distance: 2.5})
	require.NoError(t, err)

	// Any authenticated level can view history.
	loginAs(t, s, "user_basic", "basic123")
	calcs, err := s.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, calcs, 1)

	// But only administrators delete.
	assert.ErrorIs(t, s.DeleteCalculation(context.Background(), rec.ID), ErrForbidden)

	loginAs(t, s, "admin", "admin123")
	require.NoError(t, s.DeleteCalculation(context.Background(), rec.ID))
	assert.ErrorIs(t, s.DeleteCalculation(context.Background(), rec.ID), store.ErrNotFound)

	s.Logout()
	_, err = s.History(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
