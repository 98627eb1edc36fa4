package usecase

import (
	"context"
	"errors"
	"strings"

	"kinhealth/internal/converter"
	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/domain/entity"
	"kinhealth/internal/domain/repository"
	"kinhealth/internal/service"
	"kinhealth/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	redisClient  *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		auditService: auditService,
		jwtService:   jwtService,
		redisClient:  redisClient,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		ID:       uuid.New(),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(req.FullName),
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		UserID:     user.ID,
		Action:     entity.AuditActionUserRegister,
		EntityType: "user",
		EntityID:   user.ID,
		Summary:    "Created account",
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// Read-only, no transaction needed
	user, err := u.userRepo.FindByEmail(ctx, u.db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user.ID, user.Email)
}

// Logout revokes the current access token and, when known, the refresh token
func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	keys := []string{jwt.AccessTokenKey(userID, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, jwt.RefreshTokenKey(userID, refreshTokenID))
	}

	if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
		u.log.Warnf("Failed to delete tokens: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateTokenOfType(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Refresh tokens are single use
	refreshKey := jwt.RefreshTokenKey(claims.UserID, claims.TokenID)
	deleted, err := u.redisClient.Del(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}
	if deleted == 0 {
		return nil, ErrTokenRevoked
	}

	return u.issueTokens(ctx, claims.UserID, claims.Email)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	pipe := u.redisClient.TxPipeline()
	pipe.Set(ctx, jwt.AccessTokenKey(userID, accessTokenID), "valid", u.jwtService.GetAccessExpiry())
	pipe.Set(ctx, jwt.RefreshTokenKey(userID, refreshTokenID), "valid", u.jwtService.GetRefreshExpiry())
	if _, err := pipe.Exec(ctx); err != nil {
		u.log.Warnf("Failed to store tokens in Redis: %+v", err)
		return nil, err
	}

	return converter.TokenPairToResponse(accessToken, refreshToken, u.jwtService.GetAccessExpiry()), nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
