package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/auth"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

const invalidCredentials = "these credentials do not match our records"

type LoginInput struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Session is a signed-in user and the token carrying the session.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

type AuthService struct {
	db          *gorm.DB
	tokens      *auth.TokenIssuer
	revocations auth.RevocationList
	log         *logrus.Logger
	now         func() time.Time
}

// NewAuthService builds the service. revocations may be nil, in which case
// tokens stay valid until they expire.
func NewAuthService(db *gorm.DB, tokens *auth.TokenIssuer, revocations auth.RevocationList, log *logrus.Logger) *AuthService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthService{db: db, tokens: tokens, revocations: revocations, log: log, now: time.Now}
}

// Login checks credentials and issues a session for an active user.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var user models.User
	if err := s.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		if database.IsNotFound(err) {
			return Session{}, apperror.Validation("email", invalidCredentials)
		}
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if !auth.CheckPassword(in.Password, user.Password) {
		s.log.WithField("user_id", user.ID).Info("login rejected: wrong password")
		return Session{}, apperror.Validation("email", invalidCredentials)
	}
	if !user.IsActive {
		return Session{}, apperror.Validation("email", "this account has been deactivated")
	}

	token, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, err
	}
	now := s.now().UTC()
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).UpdateColumn("last_login", now).Error; err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("record last login")
	}
	user.LastLogin = &now

	return Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims auth.Claims) error {
	if s.revocations == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Authenticate resolves a session token into the acting principal.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (scope.Principal, auth.Claims, error) {
	unauthorized := apperror.New(apperror.CodeUnauthorized, "unauthenticated")

	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return scope.Principal{}, auth.Claims{}, unauthorized
	}
	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return scope.Principal{}, auth.Claims{}, err
		}
		if revoked {
			return scope.Principal{}, auth.Claims{}, unauthorized
		}
	}
	userID, err := claims.UserID()
	if err != nil {
		return scope.Principal{}, auth.Claims{}, unauthorized
	}

	var user models.User
	if err := s.db.WithContext(ctx).Preload("Role").Preload("Employee").First(&user, userID).Error; err != nil {
		if database.IsNotFound(err) {
			return scope.Principal{}, auth.Claims{}, unauthorized
		}
		return scope.Principal{}, auth.Claims{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return scope.Principal{}, auth.Claims{}, unauthorized
	}
	return scope.PrincipalFromUser(user), claims, nil
}
