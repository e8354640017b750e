package services

import (
	"context"
	"fmt"

	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

type AdminService struct {
	authRepo models.AdminAuthRepo
}

func NewAdminService(authRepo models.AdminAuthRepo) *AdminService {
	return &AdminService{
		authRepo: authRepo,
	}
}

func (as *AdminService) Login(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email format: %v", err)
	}
	if err := models.Validate.Var(password, "required"); err != nil {
		return nil, fmt.Errorf("password is required")
	}
	response, err := as.authRepo.AuthenticateUser(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %v", err)
	}
	return response, nil
}

func (as *AdminService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	response, err := as.authRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	return response, nil
}
