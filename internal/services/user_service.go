package services

import (
	"context"
	"time"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"github.com/Amirhan2201/ChatLink/pkg/logger"
	"github.com/Amirhan2201/ChatLink/pkg/middleware"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// UserService is the identity-provider glue: account creation, login and
// profile lookups. The social graph itself only ever sees user ids.
type UserService struct {
	users     UserStore
	jwtSecret string
}

func NewUserService(users UserStore, jwtSecret string) *UserService {
	return &UserService{users: users, jwtSecret: jwtSecret}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || email == "" {
		return nil, apperrors.InvalidArgument("username and email are required")
	}
	if len(password) < 8 {
		return nil, apperrors.InvalidArgument("password must be at least 8 characters")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("email is already registered")
	} else if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, apperrors.Conflict("username is already taken")
	} else if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: string(hashed),
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID.Hex()).Info("User registered")
	return user, nil
}

// Login verifies credentials and issues a signed JWT.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return "", nil, apperrors.Forbidden("invalid email or password")
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", nil, apperrors.Forbidden("invalid email or password")
	}

	claims := &middleware.Claims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetUser returns a user's public profile.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.PublicUser, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// FindByUsername looks a user up by exact username.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.PublicUser, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}
