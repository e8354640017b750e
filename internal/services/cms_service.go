package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/tower15/internal/models"
)

type ContentEditor interface {
	ProcessCMSUpdate(ctx context.Context, state models.CMSState, prompt string) (*models.CMSState, error)
}

// CMSService applies AI-assisted edits to the whole content set.
type CMSService struct {
	editor     ContentEditor
	properties *PropertyService
	settings   *SettingsService
}

func NewCMSService(editor ContentEditor, properties *PropertyService, settings *SettingsService) *CMSService {
	return &CMSService{editor: editor, properties: properties, settings: settings}
}

func (cs *CMSService) State(ctx context.Context) (*models.CMSState, error) {
	props, err := cs.properties.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	s, err := cs.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &models.CMSState{
		Properties:      props,
		BrandName:       s.BrandName,
		StripePublicKey: s.StripePublicKey,
		HosthubAPIKey:   s.HosthubAPIKey,
		MydataUserID:    s.MydataUserID,
		MydataAPIKey:    s.MydataAPIKey,
		VATNumber:       s.VATNumber,
	}, nil
}

// Propose returns the edited state without saving it.
func (cs *CMSService) Propose(ctx context.Context, prompt string) (*models.CMSState, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}
	state, err := cs.State(ctx)
	if err != nil {
		return nil, err
	}
	return cs.editor.ProcessCMSUpdate(ctx, *state, prompt)
}

// Apply saves an edited state: every property is upserted, then the settings row.
func (cs *CMSService) Apply(ctx context.Context, state *models.CMSState, accessToken string) error {
	for i := range state.Properties {
		if _, err := cs.properties.UpsertProperty(ctx, &state.Properties[i], accessToken); err != nil {
			return fmt.Errorf("property %s: %v", state.Properties[i].ID, err)
		}
	}
	current, err := cs.settings.Load(ctx)
	if err != nil {
		return err
	}
	current.BrandName = state.BrandName
	current.StripePublicKey = state.StripePublicKey
	current.HosthubAPIKey = state.HosthubAPIKey
	current.MydataUserID = state.MydataUserID
	current.MydataAPIKey = state.MydataAPIKey
	current.VATNumber = state.VATNumber
	_, err = cs.settings.Save(ctx, current, accessToken)
	return err
}
