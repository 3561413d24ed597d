package model

import (
	"time"

	"github.com/google/uuid"
)

// Location is a physical place with at least one contributed restroom code.
// ProviderPlaceID is the stable identifier assigned by the place-search
// provider; it is nil for manually entered locations, which are never
// deduplicated against each other.
type Location struct {
	ID              uuid.UUID `json:"id"`
	ProviderPlaceID *string   `json:"providerPlaceId,omitempty"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	CreatedAt       time.Time `json:"createdAt"`
	Codes           []Code    `json:"codes,omitempty"`
}

// Code is a single contributed restroom access code. Every submission is
// retained; codes are never superseded or merged.
type Code struct {
	ID         uuid.UUID `json:"id"`
	LocationID uuid.UUID `json:"locationId"`
	Code       string    `json:"code"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type SubmitLocationRequest struct {
	Name            string   `json:"name" validate:"required"`
	Address         string   `json:"address" validate:"required"`
	Code            string   `json:"code" validate:"required"`
	Lat             *float64 `json:"lat" validate:"required,latitude"`
	Lng             *float64 `json:"lng" validate:"required,longitude"`
	Notes           *string  `json:"notes"`
	ProviderPlaceID *string  `json:"providerPlaceId"`
}

func (l Location) Coordinate() Coordinate {
	return Coordinate{Lat: l.Lat, Lng: l.Lng}
}
