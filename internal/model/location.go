package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Location is a province/city pair. Only pairs listed in Regions are valid.
type Location struct {
	Province string `json:"province"`
	City     string `json:"city"`
}

// Regions is the closed set of supported provinces and their cities.
var Regions = map[string][]string{
	"DKI Jakarta":   {"Jakarta Pusat", "Jakarta Selatan", "Jakarta Barat", "Jakarta Timur", "Jakarta Utara"},
	"Jawa Barat":    {"Bandung", "Bekasi", "Bogor", "Depok", "Cimahi"},
	"Banten":        {"Tangerang", "Tangerang Selatan", "Serang", "Cilegon"},
	"Jawa Tengah":   {"Semarang", "Solo", "Magelang"},
	"DI Yogyakarta": {"Yogyakarta", "Sleman", "Bantul"},
	"Jawa Timur":    {"Surabaya", "Malang", "Sidoarjo"},
	"Bali":          {"Denpasar", "Badung", "Gianyar"},
}

// Valid reports whether the pair is part of Regions.
func (l Location) Valid() bool {
	for _, c := range Regions[l.Province] {
		if c == l.City {
			return true
		}
	}
	return false
}

func (l Location) String() string {
	return fmt.Sprintf("%s, %s", l.City, l.Province)
}

// Provinces returns the supported province names in a stable order.
func Provinces() []string {
	out := make([]string, 0, len(Regions))
	for p := range Regions {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// UnmarshalJSON accepts both the object form and the older "City, Province" string form.
func (l *Location) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		*l = parseLegacyLocation(legacy)
		return nil
	}
	type plain Location
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = Location(p)
	return nil
}

func parseLegacyLocation(s string) Location {
	parts := strings.SplitN(s, ",", 2)
	city := strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		return Location{Province: strings.TrimSpace(parts[1]), City: city}
	}
	// A bare city name: look up its province.
	for p, cities := range Regions {
		for _, c := range cities {
			if strings.EqualFold(c, city) {
				return Location{Province: p, City: c}
			}
		}
	}
	return Location{City: city}
}
