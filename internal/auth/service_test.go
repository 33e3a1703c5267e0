package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
	"github.com/quillpress/quillpress/backend/go-services/internal/events"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"github.com/quillpress/quillpress/backend/go-services/internal/password"
	"github.com/quillpress/quillpress/backend/go-services/internal/sessions"
	"github.com/quillpress/quillpress/backend/go-services/internal/tokens"
	"github.com/quillpress/quillpress/backend/go-services/internal/users"
	"github.com/quillpress/quillpress/backend/go-services/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	auth   *Service
	users  *users.Service
	rec    *events.Recorder
	issuer *tokens.Issuer
	redis  *mr.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return buildFixture(t, false)
}

// buildFixture wires users to the session store when revoke is set, as main does.
func buildFixture(t *testing.T, revoke bool) *fixture {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	sess := sessions.NewService(sessions.NewRedisRepository(client, ""))
	var opts []users.Option
	if revoke {
		opts = append(opts, users.WithSessionRevoker(sess))
	}

	h := password.NewBcrypt(bcrypt.MinCost)
	rec := &events.Recorder{}
	us := users.NewService(users.NewMemoryUserRepository(), h, rec, opts...)
	iss, err := tokens.NewIssuer(tokens.Config{AccessSecret: "access-secret-for-tests", RefreshSecret: "refresh-secret-for-tests"})
	require.NoError(t, err)

	return &fixture{
		auth:   NewService(us, h, iss, sess, sessions.NewBlacklist(client)),
		users:  us,
		rec:    rec,
		issuer: iss,
		redis:  m,
	}
}

// createUser returns the new user and its temporary password.
func (f *fixture) createUser(t *testing.T, username string, role models.Role) (*users.View, string) {
	t.Helper()
	v, err := f.users.CreateUser(context.Background(), users.CreateUserInput{Name: username, Username: username, Role: role})
	require.NoError(t, err)
	evs := f.rec.Events()
	return v, evs[len(evs)-1].(events.UserCreated).TemporaryPassword
}

func TestLogin_TokenPairClaims(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, tmp := f.createUser(t, "bob", models.RoleEditor)

	pair, err := f.auth.Login(ctx, "bob", tmp)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := f.issuer.AccessVerifier().Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, v.ID, claims.Subject)
	require.Equal(t, models.RoleEditor, claims.Role)
	require.Equal(t, models.StatusUnconfirmed, claims.Status)

	rc, err := f.issuer.RefreshVerifier().Verify(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, v.ID, rc.Subject)

	// session stored under the token digest
	require.True(t, f.redis.Exists("session:"+sessions.Digest(pair.RefreshToken)))
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "carol", models.RoleAuthor)

	before := testutil.ToFloat64(metrics.AuthAttempts.WithLabelValues("login", "rejected"))

	_, err := f.auth.Login(ctx, "carol", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.False(t, errors.Is(err, users.ErrUserNotFound))

	_, err = f.auth.Login(ctx, "nobody", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.ErrorIs(t, err, users.ErrUserNotFound)
	require.Equal(t, apperrors.KindAuthentication, apperrors.KindOf(err))

	require.Equal(t, before+2, testutil.ToFloat64(metrics.AuthAttempts.WithLabelValues("login", "rejected")))
}

func TestAliceScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, generated := f.createUser(t, "alice", models.RoleAuthor)

	require.NoError(t, f.users.ActivateUser(ctx, v.ID, generated, "NewPass123"))
	got, err := f.users.GetUser(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusConfirmed, got.Status)

	pair, err := f.auth.Login(ctx, "alice", "NewPass123")
	require.NoError(t, err)
	claims, err := f.issuer.AccessVerifier().Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, models.StatusConfirmed, claims.Status)

	_, err = f.auth.Login(ctx, "alice", generated)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_ReflectsCurrentRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, tmp := f.createUser(t, "dave", models.RoleAuthor)

	pair, err := f.auth.Login(ctx, "dave", tmp)
	require.NoError(t, err)

	_, err = f.users.UpdateUserRole(ctx, v.ID, models.RoleAdmin)
	require.NoError(t, err)

	access, err := f.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	claims, err := f.issuer.AccessVerifier().Verify(access)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, claims.Role)

	// the old access token still carries the old role until it expires
	old, err := f.issuer.AccessVerifier().Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, models.RoleAuthor, old.Role)
}

func TestRefresh_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, tmp := f.createUser(t, "erin", models.RoleAuthor)

	pair, err := f.auth.Login(ctx, "erin", tmp)
	require.NoError(t, err)

	// access token presented as refresh token
	_, err = f.auth.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, tokens.ErrInvalidSignature)

	_, err = f.auth.Refresh(ctx, "garbage")
	require.ErrorIs(t, err, tokens.ErrMalformedToken)

	// a validly signed refresh token without a session is revoked
	orphan, err := f.issuer.IssueRefreshToken(&models.User{ID: v.ID, Role: models.RoleAuthor})
	require.NoError(t, err)
	_, err = f.auth.Refresh(ctx, orphan)
	require.ErrorIs(t, err, ErrRevokedToken)

	require.NoError(t, f.users.DeleteUser(ctx, v.ID))
	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestResetAndDelete_RevokeRefreshSessions(t *testing.T) {
	f := buildFixture(t, true)
	ctx := context.Background()
	v, tmp := f.createUser(t, "hal", models.RoleAuthor)

	first, err := f.auth.Login(ctx, "hal", tmp)
	require.NoError(t, err)
	second, err := f.auth.Login(ctx, "hal", tmp)
	require.NoError(t, err)

	require.NoError(t, f.users.ResetUserPassword(ctx, v.ID))
	for _, p := range []*TokenPair{first, second} {
		_, err = f.auth.Refresh(ctx, p.RefreshToken)
		require.ErrorIs(t, err, ErrRevokedToken)
	}

	ev := f.rec.Events()[len(f.rec.Events())-1].(events.ResetUserPassword)
	pair, err := f.auth.Login(ctx, "hal", ev.TemporaryPassword)
	require.NoError(t, err)
	require.NoError(t, f.users.DeleteUser(ctx, v.ID))
	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrRevokedToken)
}

func TestRefresh_SessionExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, tmp := f.createUser(t, "fay", models.RoleAuthor)

	pair, err := f.auth.Login(ctx, "fay", tmp)
	require.NoError(t, err)

	f.redis.FastForward(tokens.DefaultRefreshTokenTTL + time.Minute)
	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrRevokedToken)
}

func TestLogin_SessionExpiryFollowsIssuerClock(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	sess := sessions.NewService(sessions.NewRedisRepository(client, ""))

	issued := time.Now().Add(-time.Hour).Truncate(time.Second)
	ttl := 24 * time.Hour
	iss, err := tokens.NewIssuer(tokens.Config{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		RefreshTTL:    ttl,
		Now:           func() time.Time { return issued },
	})
	require.NoError(t, err)

	h := password.NewBcrypt(bcrypt.MinCost)
	rec := &events.Recorder{}
	us := users.NewService(users.NewMemoryUserRepository(), h, rec)
	svc := NewService(us, h, iss, sess, nil)
	ctx := context.Background()

	_, err = us.CreateUser(ctx, users.CreateUserInput{Name: "Ida", Username: "ida"})
	require.NoError(t, err)
	tmp := rec.Events()[0].(events.UserCreated).TemporaryPassword

	pair, err := svc.Login(ctx, "ida", tmp)
	require.NoError(t, err)
	claims, err := iss.RefreshVerifier().Verify(pair.RefreshToken)
	require.NoError(t, err)

	got, err := sess.ValidateRefresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.ExpiresAt.Equal(issued.Add(ttl)), got.ExpiresAt)
	require.True(t, got.ExpiresAt.Equal(claims.ExpiresAt.Time), got.ExpiresAt)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, tmp := f.createUser(t, "gil", models.RoleAuthor)

	pair, err := f.auth.Login(ctx, "gil", tmp)
	require.NoError(t, err)

	revoked, err := f.auth.IsRevoked(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, f.auth.Logout(ctx, pair.AccessToken, pair.RefreshToken))

	revoked, err = f.auth.IsRevoked(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.True(t, revoked)

	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrRevokedToken)

	require.ErrorIs(t, f.auth.Logout(ctx, "bad", ""), tokens.ErrMalformedToken)
}

func TestWithoutSessionStore(t *testing.T) {
	h := password.NewBcrypt(bcrypt.MinCost)
	rec := &events.Recorder{}
	us := users.NewService(users.NewMemoryUserRepository(), h, rec)
	iss, err := tokens.NewIssuer(tokens.Config{AccessSecret: "a-secret", RefreshSecret: "r-secret"})
	require.NoError(t, err)
	svc := NewService(us, h, iss, nil, nil)
	ctx := context.Background()

	_, err = us.CreateUser(ctx, users.CreateUserInput{Name: "Hu", Username: "hu"})
	require.NoError(t, err)
	tmp := rec.Events()[0].(events.UserCreated).TemporaryPassword

	pair, err := svc.Login(ctx, "hu", tmp)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, pair.AccessToken, pair.RefreshToken))
	revoked, err := svc.IsRevoked(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.False(t, revoked)
}
