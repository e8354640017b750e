package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/tower15/internal/models"
)

// ChannelConfigurer receives the Hosthub API key whenever settings are loaded or saved.
type ChannelConfigurer interface {
	Configure(apiKey string)
}

type SettingsService struct {
	repo    models.SettingsRepo
	channel ChannelConfigurer
}

// NewSettingsService takes an optional channel to keep in step with the saved Hosthub key.
func NewSettingsService(repo models.SettingsRepo, channel ChannelConfigurer) *SettingsService {
	return &SettingsService{repo: repo, channel: channel}
}

func (ss *SettingsService) Load(ctx context.Context) (*models.Settings, error) {
	s, err := ss.repo.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %v", err)
	}
	if s.BrandName == "" {
		s.BrandName = models.DefaultBrandName
	}
	return s, nil
}

func (ss *SettingsService) Save(ctx context.Context, s *models.Settings, accessToken string) (*models.Settings, error) {
	s.BrandName = strings.TrimSpace(s.BrandName)
	if s.BrandName == "" {
		return nil, fmt.Errorf("brand name is required")
	}
	s.StripePublicKey = strings.TrimSpace(s.StripePublicKey)
	if s.StripePublicKey != "" && !strings.HasPrefix(s.StripePublicKey, "pk_") {
		return nil, fmt.Errorf("stripe public key must start with pk_")
	}
	s.HosthubAPIKey = strings.TrimSpace(s.HosthubAPIKey)

	if err := ss.repo.SaveSettings(ctx, s, accessToken); err != nil {
		return nil, fmt.Errorf("failed to save settings: %v", err)
	}
	if ss.channel != nil {
		ss.channel.Configure(s.HosthubAPIKey)
	}
	return s, nil
}

// ConfigureChannel applies the stored Hosthub key to the channel. Run once at startup.
func (ss *SettingsService) ConfigureChannel(ctx context.Context) error {
	if ss.channel == nil {
		return nil
	}
	s, err := ss.Load(ctx)
	if err != nil {
		return err
	}
	ss.channel.Configure(s.HosthubAPIKey)
	return nil
}

// BrandName is the saved brand, or the default when settings cannot be read.
func (ss *SettingsService) BrandName(ctx context.Context) string {
	return ss.Public(ctx).BrandName
}

// PublicSettings is the subset of settings the guest site may read.
type PublicSettings struct {
	BrandName       string `json:"brand_name"`
	StripePublicKey string `json:"stripe_public_key,omitempty"`
}

func (ss *SettingsService) Public(ctx context.Context) PublicSettings {
	s, err := ss.Load(ctx)
	if err != nil {
		return PublicSettings{BrandName: models.DefaultBrandName}
	}
	return PublicSettings{BrandName: s.BrandName, StripePublicKey: s.StripePublicKey}
}
