package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/markpoint/marker-api/internal/core/domain"
	"github.com/markpoint/marker-api/internal/core/ports"
)

// bcrypt cost factor; verification takes on the order of 100ms.
const passwordHashCost = 12

// dummyHash is compared against when the username does not exist, so both
// login failure paths take the same time.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("marker-api"), passwordHashCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// AuthService implements registration, login, and session-bound token
// validation. Tokens are meaningful only together with an active session:
// revoking the session invalidates the token immediately.
type AuthService struct {
	users     ports.UserRepository
	sessions  ports.SessionStore
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

// Register validates the credential shape, hashes the password, and
// persists the account. The sequence is deliberately explicit: validate,
// then hash, then persist.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		LastLogin:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login verifies the credentials, mints a signed token, and binds it to a
// fresh server-side session. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		// non-fatal: the login proceeds even if the timestamp write fails
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	}

	expiresAt := now.Add(s.tokenTTL)
	token, err := s.mintToken(user, now, expiresAt)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Put(ctx, session, s.tokenTTL); err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Str("user_id", user.ID).Msg("login successful")
	return &ports.LoginResult{
		Token:     token,
		SessionID: session.ID,
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrNoSession
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.log.Info().Str("session_id", sessionID).Msg("session revoked")
	return nil
}

// Authenticate resolves the session, enforces its expiry, and then verifies
// the embedded token's signature and expiry on their own. The two checks
// stay separate: session TTL and token TTL are independent bounds.
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (*domain.Identity, error) {
	if sessionID == "" {
		return nil, domain.ErrNoSession
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(s.now()) {
		return nil, domain.ErrSessionExpired
	}

	return s.verifyToken(session.Token)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) mintToken(user *domain.User, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"iat":      issuedAt.Unix(),
		"exp":      expiresAt.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

func (s *AuthService) verifyToken(token string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrBadToken
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	if sub == "" || username == "" {
		return nil, domain.ErrBadToken
	}
	return &domain.Identity{UserID: sub, Username: username}, nil
}
