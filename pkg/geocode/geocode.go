package geocode

import "github.com/manzanit0/locations/pkg/location"

type Client interface {
	ReverseGeocode(lat, lon float64) (*location.Address, error)
}
