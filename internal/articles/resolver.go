package articles

import (
	"context"
	"fmt"
	"log/slog"
)

// ResolvedFilter carries the ids behind human-readable filter names.
// Empty fields mean "no filter".
type ResolvedFilter struct {
	CategoryID     string
	OrganizationID string
}

// Resolver translates category and organization names into ids.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver backed by store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve looks up each non-empty name. ok is false as soon as a name
// matches nothing; the remaining names are not looked up.
func (r *Resolver) Resolve(ctx context.Context, category, organization string) (ResolvedFilter, bool, error) {
	var ids ResolvedFilter

	if category != "" {
		id, found, err := r.store.CategoryID(ctx, category)
		if err != nil {
			return ResolvedFilter{}, false, fmt.Errorf("resolve category %q: %w", category, err)
		}
		if !found {
			slog.Debug("unknown category", "name", category)
			return ResolvedFilter{}, false, nil
		}
		ids.CategoryID = id
	}

	if organization != "" {
		id, found, err := r.store.OrganizationID(ctx, organization)
		if err != nil {
			return ResolvedFilter{}, false, fmt.Errorf("resolve organization %q: %w", organization, err)
		}
		if !found {
			slog.Debug("unknown organization", "name", organization)
			return ResolvedFilter{}, false, nil
		}
		ids.OrganizationID = id
	}

	return ids, true, nil
}
