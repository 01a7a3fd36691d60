package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"artistconnection/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type tokenClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed tokens embedding user id and role.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Generate(userID, role string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the embedded user id and role, or an error for any invalid,
// expired or foreign token.
func (m *TokenManager) Verify(tokenString string) (userID, role string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}
	return claims.UserID, claims.Role, nil
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// WelcomeMailer sends the signup welcome email. Implementations retry and
// never propagate the final failure.
type WelcomeMailer interface {
	SendWelcomeEmail(to string)
}

type AuthService struct {
	userRepo UserRepository
	tokens   *TokenManager
	welcome  WelcomeMailer
	audit    AuditPublisher
}

func NewAuthService(userRepo UserRepository, tokens *TokenManager, welcome WelcomeMailer, audit AuditPublisher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		welcome:  welcome,
		audit:    audit,
	}
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !emailRegex.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		log.WithError(err).WithField("email", email).Error("Failed to check user existence")
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           email,
		Password:        string(hashed),
		Role:            domain.RoleUser,
		FollowedArtists: []string{},
		MonitoredStates: []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	go s.welcome.SendWelcomeEmail(user.Email)
	s.publishAudit(ctx, "user.signup", user.ID, user.ID, map[string]interface{}{"email": user.Email})

	log.WithFields(log.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User successfully signed up")

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("no user registered with this email")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrIncorrectPassword
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", user.ID).Info("User logged in")
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return domain.ErrIncorrectPassword
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.Update(ctx, user); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to update password")
		return err
	}

	log.WithField("user_id", userID).Info("Password updated")
	return nil
}

func (s *AuthService) publishAudit(ctx context.Context, eventType, entityID, actor string, payload map[string]interface{}) {
	publishAudit(ctx, s.audit, eventType, entityID, actor, payload)
}
