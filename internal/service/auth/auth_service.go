package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/repository"
	"github.com/Domenick1991/flymate/internal/session"
	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.PublicUser, error)
	Authenticate(ctx context.Context, email, password string) (*domain.PublicUser, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	ListUsers(ctx context.Context) ([]domain.PublicUser, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

type LoginResult struct {
	Session        *domain.Session
	Token          string
	TokenExpiresAt time.Time
}

type AuthService struct {
	users    repository.UserRepository
	sessions session.SessionUseCase
	tokens   *session.TokenIssuer
	hasher   Hasher
	log      *slog.Logger
	now      func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	sessions session.SessionUseCase,
	tokens *session.TokenIssuer,
	hasher Hasher,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		log:      log,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.PublicUser, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "is required")
	}
	if input.Email == "" {
		verr.Add("email", "is required")
	}
	switch {
	case input.Password == "":
		verr.Add("password", "is required")
	case len(input.Password) > MaxPasswordBytes:
		verr.Add("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	if !input.Role.Valid() {
		verr.Add("role", "must be one of user admin")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateUser
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", "email", user.Email, "role", user.Role)
	public := user.Public()
	return &public, nil
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.PublicUser, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	public := user.Public()
	return &public, nil
}

// Login authenticates and opens a session. The token wraps the session id for clients
// that cannot hold cookies.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Set(ctx, *user)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{Session: sess}
	if s.tokens != nil {
		token, exp, err := s.tokens.Issue(*sess)
		if err != nil {
			_ = s.sessions.Clear(ctx, sess.ID)
			return nil, err
		}
		result.Token, result.TokenExpiresAt = token, exp
	}
	return result, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Clear(ctx, sessionID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

var _ AuthUseCase = (*AuthService)(nil)
