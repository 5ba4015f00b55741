//go:build unit || e2e

package builder

import (
	"context"
	"testing"
	"time"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/domain/studio"
	"studio-booking/internal/usecase/shared"

	"github.com/stretchr/testify/require"
)

type StudioBuilder struct {
	OwnerID   int64
	Name      string
	City      *string
	Latitude  *float64
	Longitude *float64
	Amenities []string
	IsActive  bool
}

func NewStudioBuilder() *StudioBuilder {
	return &StudioBuilder{OwnerID: 1, Name: "Lotus Studio", Amenities: []string{}, IsActive: true}
}

func (b *StudioBuilder) With(mutate func(*StudioBuilder)) *StudioBuilder {
	mutate(b)
	return b
}

func (b *StudioBuilder) WithOwner(ownerID int64) *StudioBuilder {
	b.OwnerID = ownerID
	return b
}

func (b *StudioBuilder) WithName(name string) *StudioBuilder {
	b.Name = name
	return b
}

func (b *StudioBuilder) InCity(city string) *StudioBuilder {
	b.City = &city
	return b
}

func (b *StudioBuilder) At(lat, lng float64) *StudioBuilder {
	b.Latitude, b.Longitude = &lat, &lng
	return b
}

func (b *StudioBuilder) WithAmenities(a ...string) *StudioBuilder {
	b.Amenities = a
	return b
}

func (b *StudioBuilder) Inactive() *StudioBuilder {
	b.IsActive = false
	return b
}

func (b *StudioBuilder) BuildDomain() *studio.Studio {
	now := time.Now().UTC()
	return &studio.Studio{
		OwnerID:   b.OwnerID,
		Name:      b.Name,
		City:      b.City,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		Amenities: append([]string{}, b.Amenities...),
		IsActive:  b.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Create persists the studio through uow and returns its id.
func (b *StudioBuilder) Create(t *testing.T, uow shared.UnitOfWork) int64 {
	t.Helper()
	var id int64
	err := uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		id, err = tx.Studios().Create(ctx, b.BuildDomain())
		return err
	})
	require.NoError(t, err)
	return id
}

type ServiceBuilder struct {
	StudioID         int64
	Name             string
	Category         catalog.Category
	DurationMinutes  int
	MaxCapacity      int
	Policy           admission.Policy
	PriceSingleCents int
	IsActive         bool
}

func NewServiceBuilder() *ServiceBuilder {
	return &ServiceBuilder{
		StudioID:         1,
		Name:             "Vinyasa Flow",
		Category:         catalog.CategoryYoga,
		DurationMinutes:  60,
		MaxCapacity:      10,
		Policy:           admission.DefaultPolicy(),
		PriceSingleCents: 0,
		IsActive:         true,
	}
}

func (b *ServiceBuilder) With(mutate func(*ServiceBuilder)) *ServiceBuilder {
	mutate(b)
	return b
}

func (b *ServiceBuilder) WithStudio(studioID int64) *ServiceBuilder {
	b.StudioID = studioID
	return b
}

// WithRatios sets the soft, hard and overbooked multipliers.
func (b *ServiceBuilder) WithRatios(soft, hard, overbooked float64) *ServiceBuilder {
	b.Policy = admission.Policy{SoftLimitRatio: soft, HardLimitRatio: hard, MaxOverbookedRatio: overbooked}
	return b
}

func (b *ServiceBuilder) BuildDomain() *catalog.Service {
	now := time.Now().UTC()
	return &catalog.Service{
		StudioID:         b.StudioID,
		Name:             b.Name,
		Type:             catalog.TypeSingleClass,
		Category:         b.Category,
		DurationMinutes:  b.DurationMinutes,
		MaxCapacity:      b.MaxCapacity,
		Policy:           b.Policy,
		PriceSingleCents: b.PriceSingleCents,
		IsActive:         b.IsActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (b *ServiceBuilder) Create(t *testing.T, uow shared.UnitOfWork) int64 {
	t.Helper()
	var id int64
	err := uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		id, err = tx.Services().Create(ctx, b.BuildDomain())
		return err
	})
	require.NoError(t, err)
	return id
}
