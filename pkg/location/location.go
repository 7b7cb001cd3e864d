package location

import (
	"context"
	"errors"
)

const DefaultLimit = 5

var (
	// ErrInternal is the only error callers see when a search fails to be sent,
	// received or decoded. The underlying cause is logged, not returned.
	ErrInternal = errors.New("Internal server error")

	// ErrContractViolation is returned when the response is valid JSON that
	// doesn't fit the Location shape.
	ErrContractViolation = errors.New("location service returned an unexpected payload")
)

type Client interface {
	Search(ctx context.Context, params SearchParams) ([]Location, error)
}

type SearchParams struct {
	Query string
	// Limit defaults to DefaultLimit when nil. It isn't validated locally.
	Limit *int
}

func (p SearchParams) limit() int {
	if p.Limit == nil {
		return DefaultLimit
	}

	return *p.Limit
}

// Limit is a helper to build the optional SearchParams.Limit inline.
func Limit(n int) *int {
	return &n
}

type Address struct {
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	Name        string `json:"name"`
}

type Location struct {
	Address Address `json:"address"`
	// BoundingBox is south, north, west, east.
	BoundingBox    []string `json:"boundingbox"`
	Class          string   `json:"class"`
	DisplayAddress string   `json:"display_address"`
	DisplayName    string   `json:"display_name"`
	DisplayPlace   string   `json:"display_place"`
	Lat            string   `json:"lat"`
	Licence        string   `json:"licence"`
	Lon            string   `json:"lon"`
	OsmID          string   `json:"osm_id"`
	OsmType        string   `json:"osm_type"`
	PlaceID        string   `json:"place_id"`
	Type           string   `json:"type"`
}

// Option is what autocomplete widgets render. ID holds either a string or a
// number.
type Option struct {
	ID    any    `json:"id"`
	Label string `json:"label"`
}

func ToOptions(locations []Location) []Option {
	options := make([]Option, len(locations))
	for i, l := range locations {
		options[i] = Option{ID: l.PlaceID, Label: l.DisplayName}
	}

	return options
}
