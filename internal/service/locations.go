// Package service holds the submission resolver: validation, find-or-create
// of the underlying location, and appending the contributed code.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
	"github.com/bathroomcodes/bathroomcodes_api/internal/storage"
	"github.com/bathroomcodes/bathroomcodes_api/util"
)

// ValidationError reports a malformed submission field. Submissions that
// fail validation have zero side effects.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type LocationService struct {
	repo storage.LocationRepository
	log  zerolog.Logger
}

func NewLocationService(repo storage.LocationRepository, log zerolog.Logger) *LocationService {
	return &LocationService{repo: repo, log: log}
}

// Submit resolves the submission to a location and appends a new code row,
// returning the created code. Submissions carrying a provider place id are
// deduplicated against existing locations for the same place; the first
// writer wins on location identity and later submissions only accumulate
// codes. Submissions without a provider place id always create a fresh
// location.
func (s *LocationService) Submit(ctx context.Context, req model.SubmitLocationRequest) (model.Code, error) {
	req, err := normalize(req)
	if err != nil {
		return model.Code{}, err
	}

	loc, err := s.resolveLocation(ctx, req)
	if err != nil {
		return model.Code{}, err
	}

	code := model.Code{
		ID:         util.GenerateUUID(),
		LocationID: loc.ID,
		Code:       req.Code,
		Notes:      req.Notes,
	}
	created, err := s.repo.InsertCode(ctx, code)
	if err != nil {
		return model.Code{}, fmt.Errorf("insert code: %w", err)
	}

	return created, nil
}

func (s *LocationService) resolveLocation(ctx context.Context, req model.SubmitLocationRequest) (model.Location, error) {
	if req.ProviderPlaceID == nil {
		loc, err := s.repo.InsertLocation(ctx, newLocation(req))
		if err != nil {
			return model.Location{}, fmt.Errorf("insert location: %w", err)
		}
		return loc, nil
	}

	pid := *req.ProviderPlaceID

	existing, err := s.repo.FindByProviderPlaceID(ctx, pid)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return model.Location{}, fmt.Errorf("lookup location: %w", err)
	}

	created, err := s.repo.InsertLocation(ctx, newLocation(req))
	if err == nil {
		return created, nil
	}
	if errors.Is(err, storage.ErrDuplicatePlace) {
		// Lost the find-or-create race to a concurrent submission; attach
		// the code to whichever row won.
		s.log.Info().Str("provider_place_id", pid).Msg("location insert raced, reusing existing row")
		winner, ferr := s.repo.FindByProviderPlaceID(ctx, pid)
		if ferr != nil {
			return model.Location{}, fmt.Errorf("re-query after duplicate: %w", ferr)
		}
		return winner, nil
	}
	return model.Location{}, fmt.Errorf("insert location: %w", err)
}

func newLocation(req model.SubmitLocationRequest) model.Location {
	return model.Location{
		ID:              util.GenerateUUID(),
		ProviderPlaceID: req.ProviderPlaceID,
		Name:            req.Name,
		Address:         req.Address,
		Lat:             *req.Lat,
		Lng:             *req.Lng,
	}
}

// normalize trims every textual field and rejects the submission before any
// persistence call when a required field is blank or a coordinate is
// missing or non-finite. Blank notes and provider place ids collapse to
// absent.
func normalize(req model.SubmitLocationRequest) (model.SubmitLocationRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.Code = strings.TrimSpace(req.Code)

	if req.Name == "" {
		return req, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if req.Address == "" {
		return req, &ValidationError{Field: "address", Reason: "must not be empty"}
	}
	if req.Code == "" {
		return req, &ValidationError{Field: "code", Reason: "must not be empty"}
	}
	if err := checkCoordinate("lat", req.Lat, 90); err != nil {
		return req, err
	}
	if err := checkCoordinate("lng", req.Lng, 180); err != nil {
		return req, err
	}

	if req.Notes != nil {
		trimmed := strings.TrimSpace(*req.Notes)
		if trimmed == "" {
			req.Notes = nil
		} else {
			req.Notes = &trimmed
		}
	}
	if req.ProviderPlaceID != nil {
		trimmed := strings.TrimSpace(*req.ProviderPlaceID)
		if trimmed == "" {
			req.ProviderPlaceID = nil
		} else {
			req.ProviderPlaceID = &trimmed
		}
	}

	return req, nil
}

func checkCoordinate(field string, v *float64, bound float64) error {
	if v == nil {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if *v < -bound || *v > bound {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be between -%g and %g", bound, bound)}
	}
	return nil
}
