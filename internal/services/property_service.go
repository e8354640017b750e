package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/joshua-takyi/tower15/internal/cache"
	"github.com/joshua-takyi/tower15/internal/models"
)

// maxAvailabilityRange bounds public calendar lookups.
const maxAvailabilityRange = 366 * 24 * time.Hour

// quoteTolerance absorbs client-side rounding of the displayed total.
const quoteTolerance = 0.01

// ImageUploader stores image files and returns their public URLs.
type ImageUploader interface {
	Upload(ctx context.Context, files []string, folder string) ([]string, error)
}

type PropertyService struct {
	repo     models.PropertyRepo
	catalog  cache.Catalog
	oracle   AvailabilityOracle
	uploader ImageUploader
	logger   *slog.Logger
}

func NewPropertyService(repo models.PropertyRepo, catalog cache.Catalog, oracle AvailabilityOracle, uploader ImageUploader, logger *slog.Logger) *PropertyService {
	if catalog == nil {
		catalog = cache.Noop{}
	}
	return &PropertyService{
		repo:     repo,
		catalog:  catalog,
		oracle:   oracle,
		uploader: uploader,
		logger:   logger,
	}
}

func sortProperties(ps []models.Property) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
}

// ListProperties serves the catalog from cache, then the store. An empty store is
// seeded with the built-in catalog; an unreachable store falls back to it.
func (ps *PropertyService) ListProperties(ctx context.Context) ([]models.Property, error) {
	if cached, err := ps.catalog.GetProperties(ctx); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		ps.logger.Warn("catalog cache read failed", "error", err)
	}

	props, err := ps.repo.ListProperties(ctx)
	if err != nil {
		ps.logger.Warn("property store unavailable, serving built-in catalog", "error", err)
		return models.SeedProperties(), nil
	}

	if len(props) == 0 {
		seed := models.SeedProperties()
		if err := ps.repo.InsertProperties(ctx, seed); err != nil {
			ps.logger.Error("failed to bootstrap property catalog", "error", err)
		} else {
			ps.logger.Info("bootstrapped property catalog", "count", len(seed))
		}
		props = seed
	}

	for i := range props {
		props[i].Normalize()
	}
	sortProperties(props)

	if err := ps.catalog.SetProperties(ctx, props); err != nil {
		ps.logger.Warn("catalog cache write failed", "error", err)
	}
	return props, nil
}

func (ps *PropertyService) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	if id == "" {
		return nil, fmt.Errorf("property id is required")
	}
	p, err := ps.repo.GetProperty(ctx, id)
	if err == nil {
		p.Normalize()
		return p, nil
	}
	if errors.Is(err, models.ErrPropertyNotFound) {
		return nil, err
	}

	ps.logger.Warn("property store unavailable, looking up built-in catalog", "property_id", id, "error", err)
	for _, seed := range models.SeedProperties() {
		if seed.ID == id {
			seed.Normalize()
			return &seed, nil
		}
	}
	return nil, models.ErrPropertyNotFound
}

func (ps *PropertyService) UpsertProperty(ctx context.Context, p *models.Property, accessToken string) (*models.Property, error) {
	if err := models.Validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid property data provided: %v", err)
	}
	p.Normalize()

	if err := ps.repo.UpsertProperty(ctx, p, accessToken); err != nil {
		return nil, err
	}
	ps.invalidate(ctx)
	return p, nil
}

func (ps *PropertyService) invalidate(ctx context.Context) {
	if err := ps.catalog.Invalidate(ctx); err != nil {
		ps.logger.Warn("catalog cache invalidation failed", "error", err)
	}
}

// AddImages uploads files and appends the resulting URLs to the property's gallery.
func (ps *PropertyService) AddImages(ctx context.Context, id string, files []string, accessToken string) (*models.Property, error) {
	if ps.uploader == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one image is required")
	}
	p, err := ps.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	urls, err := ps.uploader.Upload(ctx, files, "properties/"+id)
	if err != nil {
		return nil, err
	}
	p.Images = append(p.Images, urls...)

	if err := ps.repo.UpsertProperty(ctx, p, accessToken); err != nil {
		return nil, err
	}
	ps.invalidate(ctx)
	return p, nil
}

// Availability returns the channel manager's calendar for an inclusive range.
func (ps *PropertyService) Availability(ctx context.Context, id string, from, to time.Time) (models.AvailabilityWindow, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end before start", models.ErrInvalidStay)
	}
	if to.Sub(from) > maxAvailabilityRange {
		return nil, fmt.Errorf("%w: range longer than a year", models.ErrInvalidStay)
	}
	p, err := ps.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	w, err := ps.oracle.GetAvailability(ctx, listingID(p), from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityUnconfirmed, err)
	}
	return w, nil
}

// Quote prices a stay against a fresh availability window.
func (ps *PropertyService) Quote(ctx context.Context, stay models.StayRequest) (*Quote, error) {
	if err := stay.Validate(); err != nil {
		return nil, err
	}
	p, err := ps.GetProperty(ctx, stay.PropertyID)
	if err != nil {
		return nil, err
	}
	if stay.Guests > p.Capacity && p.Capacity > 0 {
		return nil, fmt.Errorf("%w: %s sleeps at most %d guests", models.ErrInvalidStay, p.Title, p.Capacity)
	}

	w, err := ps.oracle.GetAvailability(ctx, listingID(p), stay.CheckIn, stay.LastNight())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityUnconfirmed, err)
	}
	q := PriceStay(p, w, stay)
	return &q, nil
}

// ConfirmQuote re-prices the stay and checks the total the guest saw. The returned
// quote is the current one, also on ErrQuoteChanged. Stays the calendar no longer
// confirms are passed through unchanged so the checkout reports the real reason.
func (ps *PropertyService) ConfirmQuote(ctx context.Context, stay models.StayRequest, quotedTotal float64) (*Quote, error) {
	q, err := ps.Quote(ctx, stay)
	if err != nil {
		return nil, err
	}
	if !q.Bookable {
		return q, nil
	}
	if math.Abs(roundCents(q.Total-quotedTotal)) > quoteTolerance {
		return q, fmt.Errorf("%w: quoted %.2f, current %.2f", ErrQuoteChanged, quotedTotal, q.Total)
	}
	return q, nil
}
