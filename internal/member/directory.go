package member

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/askwhyharsh/silverlink/internal/location"
	"github.com/askwhyharsh/silverlink/internal/observability"
	"github.com/askwhyharsh/silverlink/pkg/logger"
)

// Source supplies the members to list.
type Source interface {
	Members(ctx context.Context) ([]Member, error)
	Member(ctx context.Context, id int) (Member, error)
}

type ListOptions struct {
	// RadiusMeters drops members farther than this from the reference.
	// Zero disables the filter.
	RadiusMeters float64
	// Nearest orders the listing by ascending distance instead of
	// source order.
	Nearest bool
}

type Directory struct {
	source    Source
	precision uint
	logger    logger.Logger
}

func NewDirectory(source Source, cellPrecision uint, logger logger.Logger) *Directory {
	return &Directory{
		source:    source,
		precision: cellPrecision,
		logger:    logger,
	}
}

// List returns every member with its distance label from ref.
func (d *Directory) List(ctx context.Context, ref location.Coordinate, opts ListOptions) ([]Listing, error) {
	members, err := d.source.Members(ctx)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}

	out := make([]Listing, 0, len(members))
	for _, m := range members {
		if opts.RadiusMeters > 0 && !location.WithinRadius(ref, m.Coordinate, opts.RadiusMeters) {
			continue
		}
		out = append(out, d.listing(ref, m))
	}

	if opts.Nearest {
		slices.SortStableFunc(out, func(a, b Listing) int {
			return cmp.Compare(a.km, b.km)
		})
	}

	observability.RecordDirectoryListing(len(out))
	d.logger.Debug("listed members", "count", len(out), "radius_m", opts.RadiusMeters, "nearest", opts.Nearest)
	return out, nil
}

// Get returns a single member as seen from ref.
func (d *Directory) Get(ctx context.Context, ref location.Coordinate, id int) (Listing, error) {
	m, err := d.source.Member(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	return d.listing(ref, m), nil
}

func (d *Directory) listing(ref location.Coordinate, m Member) Listing {
	km := location.DistanceKm(ref, m.Coordinate)
	return Listing{
		Member:   m,
		Distance: location.FormatDistance(km),
		Cell:     location.Cell(m.Coordinate, d.precision),
		km:       km,
	}
}
