package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dias221467/Social_Network/internal/models"
	"github.com/Dias221467/Social_Network/internal/repository"
	jwtutil "github.com/Dias221467/Social_Network/pkg/jwt"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past 72 bytes; longer passwords are rejected instead.
const maxPasswordBytes = 72

// AuthService handles registration, login and token issuance.
type AuthService struct {
	users    UserStore
	secret   string
	expiry   time.Duration
	hashCost int
}

// NewAuthService creates a new AuthService signing tokens with secret.
func NewAuthService(users UserStore, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		secret:   secret,
		expiry:   expiry,
		hashCost: bcrypt.DefaultCost,
	}
}

// Register creates an account with a hashed password and returns a fresh token.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.AuthResult, error) {
	logrus.Info("Registering new user")

	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, invalid("username and password are required")
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, invalid("password must be at most %d bytes", maxPasswordBytes)
	}

	existing, err := s.users.GetUserByUsername(ctx, in.Username)
	switch {
	case err == nil && existing != nil:
		logrus.WithField("username", in.Username).Warn("Username already in use")
		return nil, ErrDuplicateUsername
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, &models.User{
		Username:       in.Username,
		HashedPassword: string(hashedPwd),
		Gender:         in.Gender,
		DOB:            in.DOB,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateUsername
		}
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), s.secret, s.expiry)
	if err != nil {
		return nil, err
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User registered successfully")
	return &models.AuthResult{ID: user.ID, Username: user.Username, Token: token}, nil
}

// Login verifies the credentials and issues a fresh token. No token is
// issued when the username is unknown or the password does not match.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	logrus.WithField("username", username).Info("Authenticating user")

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logrus.WithField("username", username).Warn("User not found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("username", username).Warn("Invalid credentials")
		return nil, ErrInvalidCredentials
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), s.secret, s.expiry)
	if err != nil {
		return nil, err
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return &models.AuthResult{ID: user.ID, Username: user.Username, Token: token}, nil
}

// Logout is stateless: issued tokens stay valid until they expire and the
// client is responsible for discarding its copy.
func (s *AuthService) Logout(_ context.Context) string {
	return "logged out"
}

// ParseToken validates a token and returns the account id it was issued for.
func (s *AuthService) ParseToken(token string) (primitive.ObjectID, error) {
	claims, err := jwtutil.ValidateToken(token, s.secret)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}
