package converter

import (
	"time"

	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/domain/entity"
)

// UserToResponse never exposes the password hash
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// TokenPairToResponse reports the access token lifetime in whole seconds
func TokenPairToResponse(accessToken, refreshToken string, accessExpiry time.Duration) *dto.TokenResponse {
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessExpiry / time.Second),
	}
}
