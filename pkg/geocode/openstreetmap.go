package geocode

import (
	"fmt"

	"github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"

	"github.com/manzanit0/locations/pkg/location"
)

// NewOpenstreetmapClient reverse geocodes against baseURL, or the public
// Nominatim instance when it's empty.
func NewOpenstreetmapClient(baseURL string) *oc {
	if baseURL == "" {
		return newClient(openstreetmap.Geocoder())
	}

	return newClient(openstreetmap.GeocoderWithURL(baseURL))
}

func newClient(g geo.Geocoder) *oc {
	return &oc{geocoder: g}
}

type oc struct {
	geocoder geo.Geocoder
}

var _ Client = (*oc)(nil)

func (c *oc) ReverseGeocode(lat, lon float64) (*location.Address, error) {
	address, err := c.geocoder.ReverseGeocode(lat, lon)
	if err != nil {
		return nil, err
	}

	if address == nil {
		return nil, fmt.Errorf("unable to reverse geocode location")
	}

	name := address.FormattedAddress
	if address.City != "" {
		name = fmt.Sprintf("%s, %s", address.City, address.Country)
	}

	return &location.Address{
		Name:        name,
		Country:     address.Country,
		CountryCode: address.CountryCode,
	}, nil
}
