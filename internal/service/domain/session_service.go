package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
)

// SessionStorage persists one browser session as a credential/identity pair.
// Implementations must write and remove both values in a single operation.
type SessionStorage interface {
	SaveSession(ctx context.Context, sid, token, userInfo string) error
	LoadSession(ctx context.Context, sid string) (token, userInfo string, err error)
	ClearSession(ctx context.Context, sid string) error
	SessionToken(ctx context.Context, sid string) (string, error)
}

// Session is the state restored for one request. A nil Identity means anonymous.
type Session struct {
	ID       string
	Identity *model.Identity
}

func (s Session) Authenticated() bool {
	return s.Identity != nil
}

// Role returns the identity's role, or the empty role when anonymous.
func (s Session) Role() model.Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

const MinPasswordLength = 6

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

type SessionService interface {
	Initialize(ctx context.Context, sid string) (Session, error)
	Login(ctx context.Context, sid, email, password string) (*model.Identity, error)
	Logout(ctx context.Context, sid string) error
	Register(ctx context.Context, req api.RegisterRequest) error
	UpdateProfile(ctx context.Context, session Session, name, email string) (*model.Identity, error)
	ChangePassword(ctx context.Context, session Session, in ChangePasswordInput) error
	TokenSource(sid string) api.TokenSource
	Client(sid string) *api.Client
}

type sessionService struct {
	storage SessionStorage
	client  *api.Client
	logger  *zap.Logger
}

var _ SessionService = (*sessionService)(nil)

func NewSessionService(storage SessionStorage, client *api.Client, logger *zap.Logger) *sessionService {
	return &sessionService{
		storage: storage,
		client:  client,
		logger:  logger,
	}
}

// Initialize restores the identity only when both the credential and the
// identity are present. It is the only bootstrap read of storage.
func (s *sessionService) Initialize(ctx context.Context, sid string) (Session, error) {
	session := Session{ID: sid}
	if sid == "" {
		return session, nil
	}
	token, userInfo, err := s.storage.LoadSession(ctx, sid)
	if err != nil {
		return session, fmt.Errorf("failed to load session: %w", err)
	}
	if token == "" || userInfo == "" {
		return session, nil
	}
	var identity model.Identity
	if err := json.Unmarshal([]byte(userInfo), &identity); err != nil {
		s.logger.Warn("discarding unreadable session identity", zap.String("sid", sid), zap.Error(err))
		return session, nil
	}
	session.Identity = &identity
	return session, nil
}

func (s *sessionService) Login(ctx context.Context, sid, email, password string) (*model.Identity, error) {
	resp, err := s.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		switch api.StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
		}
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: backend issued no token", ErrAuthentication)
	}

	identity := &model.Identity{
		ID:    resp.ID,
		Email: resp.Email,
		Name:  resp.Name,
		Role:  resp.Role,
	}
	if identity.Email == "" {
		identity.Email = email
	}
	if err := s.persist(ctx, sid, resp.Token, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Logout clears storage unconditionally. Navigation back to the login view is
// the caller's job.
func (s *sessionService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.storage.ClearSession(ctx, sid)
}

func (s *sessionService) Register(ctx context.Context, req api.RegisterRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if req.Role == model.RoleOrganizer && strings.TrimSpace(req.CompanyName) == "" {
		return ErrCompanyNameRequired
	}
	if req.Role != model.RoleOrganizer {
		req.CompanyName = ""
	}
	_, err := s.client.Register(ctx, req)
	return err
}

// UpdateProfile saves the new name and email on the backend, then rewrites the
// stored identity together with the unchanged credential.
func (s *sessionService) UpdateProfile(ctx context.Context, session Session, name, email string) (*model.Identity, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if _, err := s.Client(session.ID).UpdateProfile(ctx, api.UpdateProfileRequest{Name: name, Email: email}); err != nil {
		return nil, err
	}
	token, err := s.storage.SessionToken(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	updated := *session.Identity
	updated.Name = name
	updated.Email = email
	if err := s.persist(ctx, session.ID, token, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *sessionService) ChangePassword(ctx context.Context, session Session, in ChangePasswordInput) error {
	if !session.Authenticated() {
		return ErrNotAuthenticated
	}
	if in.NewPassword != in.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(in.NewPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	_, err := s.Client(session.ID).ChangePassword(ctx, api.ChangePasswordRequest{
		CurrentPassword: in.CurrentPassword,
		NewPassword:     in.NewPassword,
	})
	return err
}

func (s *sessionService) TokenSource(sid string) api.TokenSource {
	return api.TokenSourceFunc(func(ctx context.Context) (string, error) {
		if sid == "" {
			return "", nil
		}
		return s.storage.SessionToken(ctx, sid)
	})
}

// Client returns a backend client authenticated as the given browser session.
func (s *sessionService) Client(sid string) *api.Client {
	return s.client.WithTokenSource(s.TokenSource(sid))
}

func (s *sessionService) persist(ctx context.Context, sid, token string, identity *model.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	if err := s.storage.SaveSession(ctx, sid, token, string(data)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
