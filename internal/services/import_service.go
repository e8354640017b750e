package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/tower15/internal/hosthub"
	"github.com/joshua-takyi/tower15/internal/models"
)

type ListingSource interface {
	GetListings(ctx context.Context) ([]hosthub.Listing, error)
}

type ImportService struct {
	source     ListingSource
	properties *PropertyService
	logger     *slog.Logger
}

func NewImportService(source ListingSource, properties *PropertyService, logger *slog.Logger) *ImportService {
	return &ImportService{source: source, properties: properties, logger: logger}
}

type ImportReport struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// SyncFromHosthub imports every channel-manager listing into the catalog. Listings
// already linked by hosthub_listing_id get their English copy, prices, capacity and
// photos refreshed; Greek translations and house rules stay as edited in the console.
// Unlinked listings become new properties.
func (is *ImportService) SyncFromHosthub(ctx context.Context, accessToken string) (ImportReport, error) {
	var rep ImportReport
	listings, err := is.source.GetListings(ctx)
	if err != nil {
		return rep, fmt.Errorf("failed to fetch hosthub listings: %w", err)
	}

	existing, err := is.properties.ListProperties(ctx)
	if err != nil {
		return rep, err
	}
	byListing := make(map[string]models.Property, len(existing))
	for _, p := range existing {
		if p.HosthubListingID != "" {
			byListing[p.HosthubListingID] = p
		}
	}

	for _, l := range listings {
		if strings.TrimSpace(l.ID) == "" || strings.TrimSpace(l.Name) == "" {
			rep.Skipped++
			continue
		}

		p, linked := byListing[l.ID]
		if linked {
			mergeListing(&p, l)
		} else {
			p = newPropertyFromListing(l)
		}

		if _, err := is.properties.UpsertProperty(ctx, &p, accessToken); err != nil {
			is.logger.Warn("hosthub listing import failed", "listing_id", l.ID, "error", err)
			rep.Skipped++
			continue
		}
		if linked {
			rep.Updated++
		} else {
			rep.Created++
		}
	}

	is.logger.Info("hosthub import finished", "created", rep.Created, "updated", rep.Updated, "skipped", rep.Skipped)
	return rep, nil
}

func mergeListing(p *models.Property, l hosthub.Listing) {
	p.Title = l.Name
	if l.Description != "" {
		p.Description = l.Description
	}
	if l.BasePrice > 0 {
		p.PricePerNightBase = l.BasePrice
	}
	if l.CleaningFee > 0 {
		p.CleaningFee = l.CleaningFee
	}
	if l.MaxGuests > 0 {
		p.Capacity = l.MaxGuests
	}
	if l.Bedrooms > 0 {
		p.Bedrooms = l.Bedrooms
	}
	if l.Bathrooms > 0 {
		p.Bathrooms = l.Bathrooms
	}
	if len(l.Photos) > 0 {
		p.Images = l.Photos
	}
}

func newPropertyFromListing(l hosthub.Listing) models.Property {
	p := models.Property{
		ID:                 "hh-" + l.ID,
		HosthubListingID:   l.ID,
		Category:           "Suite",
		Location:           "Thessaloniki Center",
		Capacity:           2,
		Bedrooms:           1,
		Bathrooms:          1,
		CancellationPolicy: "Free cancellation up to 48 hours before check-in.",
	}
	mergeListing(&p, l)
	p.ShortDescription = p.Description
	if r := []rune(p.ShortDescription); len(r) > 140 {
		p.ShortDescription = strings.TrimSpace(string(r[:140])) + "…"
	}
	return p
}
