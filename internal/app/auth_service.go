package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/randyf333/SylliAI/internal/model"
	"github.com/randyf333/SylliAI/internal/pkg/jwtutil"
	"github.com/randyf333/SylliAI/internal/repository"
	"github.com/randyf333/SylliAI/internal/session"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrSessionExpired    = errors.New("session expired")
)

// SessionStore is the server-side session record store the auth flows drive:
// created at login, rewritten on refresh, destroyed at logout.
type SessionStore interface {
	Create(ctx context.Context, sess session.Session) (string, error)
	Get(ctx context.Context, id string) (*session.Session, bool, error)
	Update(ctx context.Context, id string, sess session.Session) error
	Delete(ctx context.Context, id string) error
}

type AuthService struct {
	userRepo   *repository.UserRepository
	sessions   SessionStore
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

type LoginResult struct {
	SessionID string
	User      *model.User
}

func NewAuthService(
	userRepo *repository.UserRepository,
	sessions SessionStore,
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// SignUp creates the user record. A row in the users table is required for
// ownership scoping of syllabi and documents.
func (s *AuthService) SignUp(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	password = strings.TrimSpace(password)
	if email == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// LogIn verifies credentials, issues a token pair, and creates the
// server-side session record the session guard checks on every request.
func (s *AuthService) LogIn(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	pair, err := jwtutil.GeneratePair(s.jwtSecret, s.accessTTL, s.refreshTTL, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	sessionID, err := s.sessions.Create(ctx, session.Session{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{SessionID: sessionID, User: user}, nil
}

// LogOut destroys the session record.
func (s *AuthService) LogOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Refresh rotates the token pair using the session's refresh token. An
// invalid or expired refresh token destroys the session.
func (s *AuthService) Refresh(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionExpired
	}
	sess, ok, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !ok || !sess.HasTokens() {
		return ErrSessionExpired
	}

	claims, err := jwtutil.ParseToken(s.jwtSecret, sess.RefreshToken)
	if err != nil || claims.TokenType != jwtutil.TokenTypeRefresh {
		_ = s.sessions.Delete(ctx, sessionID)
		return ErrSessionExpired
	}

	pair, err := jwtutil.GeneratePair(s.jwtSecret, s.accessTTL, s.refreshTTL, claims.UserID, claims.Email)
	if err != nil {
		return err
	}
	sess.AccessToken = pair.AccessToken
	sess.RefreshToken = pair.RefreshToken
	return s.sessions.Update(ctx, sessionID, *sess)
}

func (s *AuthService) GetUserByID(id string) (*model.User, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(id)
}
