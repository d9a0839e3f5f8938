package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/repos"
	"github.com/isekai-health/backend/internal/requestdata"
	"github.com/isekai-health/backend/internal/types"
)

const minPasswordLen = 6

type AuthService interface {
	Register(ctx context.Context, username, email, password, role string) (*types.User, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	userTokenRepo   repos.UserTokenRepo
	progressionRepo repos.UserProgressionRepo
	jwtSecretKey    string
	accessTTL       time.Duration
	refreshTTL      time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	progressionRepo repos.UserProgressionRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:              db,
		log:             serviceLog,
		userRepo:        userRepo,
		userTokenRepo:   userTokenRepo,
		progressionRepo: progressionRepo,
		jwtSecretKey:    jwtSecretKey,
		accessTTL:       accessTTL,
		refreshTTL:      refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, username, email, password, role string) (*types.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") || strings.Contains(email, " ") {
		return nil, fmt.Errorf("%w: email address is malformed", ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	if role == "" {
		role = types.RolePatient
	}
	if !types.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	exists, err := as.userRepo.UsernameOrEmailExists(ctx, nil, username, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: username or email already registered", ErrNameTaken)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}

	// The user and their zeroed progression ledger are born together.
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if err := as.progressionRepo.CreateForUser(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("create progression: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	as.log.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", fmt.Errorf("invalid email or password")
		}
		return "", "", fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("invalid email or password")
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("clear previous tokens: %w", err)
		}
		accessToken, refreshToken, err = as.issueTokenPair(ctx, tx, user)
		if err != nil {
			return err
		}
		return as.userRepo.TouchLastLogin(ctx, tx, user.ID)
	})
	if err != nil {
		return "", "", err
	}

	as.log.Info("User logged in", "user_id", user.ID)
	return accessToken, refreshToken, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if _, _, err := as.parseToken(refreshToken); err != nil {
		return "", "", fmt.Errorf("invalid refresh token")
	}

	row, err := as.userTokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", fmt.Errorf("invalid refresh token")
		}
		return "", "", fmt.Errorf("load refresh token: %w", err)
	}
	if row.ExpiresAt.Before(time.Now()) {
		return "", "", fmt.Errorf("refresh token expired")
	}

	user, err := as.userRepo.GetByID(ctx, nil, row.UserID)
	if err != nil {
		return "", "", fmt.Errorf("load user: %w", err)
	}

	var accessToken, newRefreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{row.ID}); err != nil {
			return fmt.Errorf("rotate token: %w", err)
		}
		accessToken, newRefreshToken, err = as.issueTokenPair(ctx, tx, user)
		return err
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("request data not set in context")
	}
	if err := as.userTokenRepo.DeleteByUserID(ctx, nil, rd.UserID); err != nil {
		return fmt.Errorf("delete tokens: %w", err)
	}
	as.log.Info("User logged out", "user_id", rd.UserID)
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	userID, role, err := as.parseToken(tokenString)
	if err != nil {
		return ctx, err
	}

	row, err := as.userTokenRepo.GetByAccessToken(ctx, nil, tokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx, fmt.Errorf("token revoked")
		}
		return ctx, fmt.Errorf("load token: %w", err)
	}
	if row.UserID != userID {
		return ctx, fmt.Errorf("token does not match its owner")
	}

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Role:        role,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issueTokenPair(ctx context.Context, tx *gorm.DB, user *types.User) (string, string, error) {
	now := time.Now()
	accessToken, err := as.signToken(user, now, as.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := as.signToken(user, now, as.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}

	row := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, row); err != nil {
		return "", "", fmt.Errorf("store token: %w", err)
	}
	return accessToken, refreshToken, nil
}

func (as *authService) signToken(user *types.User, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"jti":  uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) parseToken(tokenString string) (uuid.UUID, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid token subject")
	}
	role, _ := claims["role"].(string)
	return userID, role, nil
}
