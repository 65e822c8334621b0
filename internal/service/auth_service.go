package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lexflow/lexflow-web/internal/auth"
	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/repository"
)

var ErrCredentialsRequired = errors.New("email and password are required")

// Session is a freshly signed session cookie.
type Session struct {
	Cookie  string
	Expires time.Time
	User    *models.User
}

type AuthService struct {
	users    *repository.UserRepo
	sessions *auth.Sessions
}

func NewAuthService(users *repository.UserRepo, sessions *auth.Sessions) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Login exchanges credentials for a backend token and wraps it in a
// session cookie.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	tok, err := s.users.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	user, err := s.users.Me(backend.WithToken(ctx, tok.AccessToken))
	if err != nil {
		return nil, err
	}
	cookie, exp, err := s.sessions.Issue(user.ID, user.Email, user.FullName, tok.AccessToken)
	if err != nil {
		return nil, err
	}
	return &Session{Cookie: cookie, Expires: exp, User: user}, nil
}

// Register creates the account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, reg models.Registration) (*Session, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.FullName = strings.TrimSpace(reg.FullName)
	reg.FirmName = strings.TrimSpace(reg.FirmName)
	if reg.Email == "" || reg.Password == "" {
		return nil, ErrCredentialsRequired
	}
	if _, err := s.users.Register(ctx, reg); err != nil {
		return nil, err
	}
	return s.Login(ctx, reg.Email, reg.Password)
}

// Me returns the user behind the token in ctx.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	return s.users.Me(ctx)
}
