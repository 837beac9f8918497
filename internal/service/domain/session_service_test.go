package domain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/cache"
	"github.com/qs-lzh/concert-storefront/internal/model"
)

type authBackend struct {
	calls    int
	profile  api.UpdateProfileRequest
	password api.ChangePasswordRequest
	register api.RegisterRequest
	authz    []string
}

func (b *authBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.calls++
	b.authz = append(b.authz, r.Header.Get("Authorization"))
	switch r.URL.Path {
	case "/api/auth/login":
		var req api.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		if req.Email == "tokenless@example.com" {
			w.Write([]byte(`{"id":4,"name":"Nid","role":"USER"}`))
			return
		}
		w.Write([]byte(`{"token":"tok-1","id":3,"name":"Ploy","role":"ORGANIZER"}`))
	case "/api/auth/register":
		json.NewDecoder(r.Body).Decode(&b.register)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"registered"}`))
	case "/api/user/profile":
		json.NewDecoder(r.Body).Decode(&b.profile)
		w.Write([]byte(`{"message":"updated"}`))
	case "/api/user/change-password":
		json.NewDecoder(r.Body).Decode(&b.password)
		w.Write([]byte(`{"message":"changed"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestSessionService(t *testing.T) (*sessionService, *cache.MemoryCache, *authBackend) {
	t.Helper()
	backend := &authBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	storage := cache.NewMemoryCache()
	svc := NewSessionService(storage, api.NewClient(srv.URL+"/api", srv.Client()), zap.NewNop())
	return svc, storage, backend
}

func TestLoginPersistsCredentialAndIdentityTogether(t *testing.T) {
	svc, storage, _ := newTestSessionService(t)
	ctx := context.Background()

	identity, err := svc.Login(ctx, "sid-1", "ploy@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, &model.Identity{ID: 3, Email: "ploy@example.com", Name: "Ploy", Role: model.RoleOrganizer}, identity)

	token, userInfo, err := storage.LoadSession(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.JSONEq(t, `{"id":3,"email":"ploy@example.com","name":"Ploy","role":"ORGANIZER"}`, userInfo)
}

func TestLoginRejectedCredentials(t *testing.T) {
	svc, storage, _ := newTestSessionService(t)

	_, err := svc.Login(context.Background(), "sid-1", "ploy@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthentication)
	msg, ok := api.BackendMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Invalid credentials", msg)
	assert.Zero(t, storage.Len())
}

func TestInitializeIsIdempotent(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	ctx := context.Background()
	_, err := svc.Login(ctx, "sid-1", "ploy@example.com", "secret")
	require.NoError(t, err)

	first, err := svc.Initialize(ctx, "sid-1")
	require.NoError(t, err)
	second, err := svc.Initialize(ctx, "sid-1")
	require.NoError(t, err)

	require.True(t, first.Authenticated())
	assert.Equal(t, first, second)
	assert.Equal(t, model.RoleOrganizer, second.Role())
}

func TestInitializeNeedsBothValues(t *testing.T) {
	svc, storage, _ := newTestSessionService(t)
	ctx := context.Background()

	require.NoError(t, storage.SaveSession(ctx, "only-token", "tok", ""))
	session, err := svc.Initialize(ctx, "only-token")
	require.NoError(t, err)
	assert.False(t, session.Authenticated())

	require.NoError(t, storage.SaveSession(ctx, "corrupt", "tok", "{not json"))
	session, err = svc.Initialize(ctx, "corrupt")
	require.NoError(t, err)
	assert.False(t, session.Authenticated())

	session, err = svc.Initialize(ctx, "")
	require.NoError(t, err)
	assert.False(t, session.Authenticated())
}

func TestLogoutClearsStorageWithoutNetwork(t *testing.T) {
	svc, storage, backend := newTestSessionService(t)
	ctx := context.Background()
	_, err := svc.Login(ctx, "sid-1", "ploy@example.com", "secret")
	require.NoError(t, err)
	calls := backend.calls

	require.NoError(t, svc.Logout(ctx, "sid-1"))
	assert.Equal(t, calls, backend.calls)
	assert.Zero(t, storage.Len())

	session, err := svc.Initialize(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, session.Authenticated())
}

func TestRegisterRequiresCompanyForOrganizer(t *testing.T) {
	svc, _, backend := newTestSessionService(t)
	ctx := context.Background()

	err := svc.Register(ctx, api.RegisterRequest{Email: "o@example.com", Password: "secret", Role: model.RoleOrganizer})
	assert.ErrorIs(t, err, ErrCompanyNameRequired)
	assert.Zero(t, backend.calls)

	err = svc.Register(ctx, api.RegisterRequest{Email: " u@example.com ", Password: "secret", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, backend.register.Role)
	assert.Equal(t, "u@example.com", backend.register.Email)
	assert.Empty(t, backend.register.CompanyName)
}

func TestUpdateProfileRewritesIdentityWithToken(t *testing.T) {
	svc, storage, backend := newTestSessionService(t)
	ctx := context.Background()
	_, err := svc.Login(ctx, "sid-1", "ploy@example.com", "secret")
	require.NoError(t, err)
	session, err := svc.Initialize(ctx, "sid-1")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, session, "Ploy S.", "ploy.s@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ploy S.", updated.Name)
	assert.Equal(t, api.UpdateProfileRequest{Name: "Ploy S.", Email: "ploy.s@example.com"}, backend.profile)
	assert.Equal(t, "Bearer tok-1", backend.authz[len(backend.authz)-1])

	token, userInfo, err := storage.LoadSession(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.JSONEq(t, `{"id":3,"email":"ploy.s@example.com","name":"Ploy S.","role":"ORGANIZER"}`, userInfo)
}

func TestChangePasswordValidatesLocally(t *testing.T) {
	svc, _, backend := newTestSessionService(t)
	ctx := context.Background()
	session := Session{ID: "sid-1", Identity: &model.Identity{ID: 3, Role: model.RoleUser}}

	err := svc.ChangePassword(ctx, session, ChangePasswordInput{CurrentPassword: "old", NewPassword: "abcdef", ConfirmPassword: "abcdeg"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	err = svc.ChangePassword(ctx, session, ChangePasswordInput{CurrentPassword: "old", NewPassword: "abc", ConfirmPassword: "abc"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	err = svc.ChangePassword(ctx, Session{ID: "sid-1"}, ChangePasswordInput{NewPassword: "abcdef", ConfirmPassword: "abcdef"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, backend.calls)

	err = svc.ChangePassword(ctx, session, ChangePasswordInput{CurrentPassword: "old", NewPassword: "abcdef", ConfirmPassword: "abcdef"})
	require.NoError(t, err)
	assert.Equal(t, api.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "abcdef"}, backend.password)
}

func TestLoginWithoutTokenIsRejected(t *testing.T) {
	svc, storage, _ := newTestSessionService(t)

	identity, err := svc.Login(context.Background(), "sid-1", "tokenless@example.com", "secret")
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Nil(t, identity)
	assert.Equal(t, 0, storage.Len())
}
