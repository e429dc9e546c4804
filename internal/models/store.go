package models

import (
	"fmt"
	"net/url"
)

type Store struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	MapsURL   string   `json:"maps_url,omitempty"`
}

// ResolveMapsURL returns the best available Google Maps link for the store:
// an explicitly stored URL wins, then a coordinate search, then an
// address search. Empty when none of the three is available.
func (s Store) ResolveMapsURL() string {
	if s.MapsURL != "" {
		return s.MapsURL
	}
	if s.Latitude != nil && s.Longitude != nil {
		return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%g,%g", *s.Latitude, *s.Longitude)
	}
	if s.Address != "" {
		return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(s.Address)
	}
	return ""
}
