package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"zattar/config"
	"zattar/internal/domain/user"
	"zattar/internal/repository"
	zattar_errors "zattar/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	City        string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

type UserInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	City        string `json:"city,omitempty"`
}

type AccessClaims struct {
	UserID string `json:"sub"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	if err := validateRegister(in); err != nil {
		return AuthResponse{}, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, strings.ToLower(in.Email)); err == nil {
		return AuthResponse{}, zattar_errors.ErrAlreadyExists
	} else if !errors.Is(err, zattar_errors.ErrNotFound) {
		return AuthResponse{}, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return AuthResponse{}, err
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		City:         in.City,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return AuthResponse{}, err
	}

	return s.respond(*newUser)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return AuthResponse{}, zattar_errors.ErrInvalidInput
	}

	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		if errors.Is(err, zattar_errors.ErrNotFound) {
			return AuthResponse{}, zattar_errors.ErrUnauthorized
		}
		return AuthResponse{}, err
	}

	if err := comparePassword(u.PasswordHash, in.Password); err != nil {
		return AuthResponse{}, zattar_errors.ErrUnauthorized
	}

	return s.respond(u)
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, zattar_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, zattar_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, zattar_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, zattar_errors.ErrUnauthorized
	}

	return *claims, nil
}

func (s *AuthService) respond(u user.User) (AuthResponse, error) {
	token, expiresIn, err := s.newAccessToken(u.ID)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		User:        toUserInfo(u),
	}, nil
}

func (s *AuthService) newAccessToken(userID uuid.UUID) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTTL)

	claims := AccessClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}

	return signed, int64(s.accessTTL.Seconds()), nil
}

// HTTPStatus maps service errors onto response codes at the HTTP boundary.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, zattar_errors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, zattar_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, zattar_errors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, zattar_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, zattar_errors.ErrAlreadyExists),
		errors.Is(err, zattar_errors.ErrAlreadyPending),
		errors.Is(err, zattar_errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, zattar_errors.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, zattar_errors.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode gives the machine-readable code for a service error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, zattar_errors.ErrInvalidInput):
		return "INVALID_REQUEST"
	case errors.Is(err, zattar_errors.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, zattar_errors.ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, zattar_errors.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, zattar_errors.ErrAlreadyPending):
		return "ALREADY_PENDING"
	case errors.Is(err, zattar_errors.ErrAlreadyExists):
		return "ALREADY_EXISTS"
	case errors.Is(err, zattar_errors.ErrConflict):
		return "CONFLICT"
	case errors.Is(err, zattar_errors.ErrInvalidTransition):
		return "INVALID_STATE"
	case errors.Is(err, zattar_errors.ErrRateLimited):
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}

func validateRegister(in RegisterInput) error {
	if in.Email == "" || in.Password == "" || in.DisplayName == "" {
		return zattar_errors.ErrInvalidInput
	}
	if len(in.Password) < 8 {
		return zattar_errors.ErrInvalidInput
	}
	return nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func toUserInfo(u user.User) UserInfo {
	return UserInfo{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		City:        u.City,
	}
}
