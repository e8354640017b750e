package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrPropertyNotFound = errors.New("property not found")

func (su *SupabaseRepo) ListProperties(ctx context.Context) ([]Property, error) {
	data, _, err := su.supabaseClient.From(PropertiesTable).Select("*", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get properties: %v", err)
	}

	var properties []Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to unmarshal properties: %v", err)
	}
	for i := range properties {
		properties[i].Normalize()
	}
	return properties, nil
}

func (su *SupabaseRepo) GetProperty(ctx context.Context, id string) (*Property, error) {
	data, _, err := su.supabaseClient.From(PropertiesTable).
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %v", id, err)
	}

	// Supabase returns an array even for single results
	var properties []Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to unmarshal property: %v", err)
	}
	if len(properties) == 0 {
		return nil, ErrPropertyNotFound
	}
	p := properties[0]
	p.Normalize()
	return &p, nil
}

func (su *SupabaseRepo) UpsertProperty(ctx context.Context, p *Property, accessToken string) error {
	client, err := su.GetAuthenticatedClient(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %v", err)
	}

	_, _, err = client.From(PropertiesTable).
		Upsert(p, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to save property %s: %v", p.ID, err)
	}
	return nil
}

// InsertProperties bootstraps an empty catalog.
func (su *SupabaseRepo) InsertProperties(ctx context.Context, ps []Property) error {
	if len(ps) == 0 {
		return nil
	}
	_, _, err := su.supabaseClient.From(PropertiesTable).
		Insert(ps, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to bootstrap properties: %v", err)
	}
	return nil
}

func (su *SupabaseRepo) LoadSettings(ctx context.Context) (*Settings, error) {
	data, _, err := su.supabaseClient.From(SettingsTable).
		Select("*", "", false).
		Eq("id", "1").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %v", err)
	}

	var rows []Settings
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %v", err)
	}

	settings := &Settings{ID: 1}
	if len(rows) > 0 {
		settings = &rows[0]
	}
	if settings.BrandName == "" {
		settings.BrandName = DefaultBrandName
	}
	return settings, nil
}

func (su *SupabaseRepo) SaveSettings(ctx context.Context, s *Settings, accessToken string) error {
	client, err := su.GetAuthenticatedClient(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %v", err)
	}

	s.ID = 1
	s.UpdatedAt = time.Now().UTC()
	_, _, err = client.From(SettingsTable).
		Upsert(s, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to save settings: %v", err)
	}
	return nil
}
