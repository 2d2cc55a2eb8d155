package services

import (
	"context"
	"log"
	"strings"
)

// CountryInfo is a resolved destination country with its flag emoji.
type CountryInfo struct {
	Country string `json:"country"`
	Flag    string `json:"flag"`
}

// destinationCountries maps known destination and country names (lowercase)
// to country info. Checked before any AI call.
var destinationCountries = map[string]CountryInfo{
	"israel": {"Israel", "🇮🇱"}, "tel aviv": {"Israel", "🇮🇱"},
	"jerusalem": {"Israel", "🇮🇱"}, "haifa": {"Israel", "🇮🇱"}, "eilat": {"Israel", "🇮🇱"},

	"uk": {"United Kingdom", "🇬🇧"}, "united kingdom": {"United Kingdom", "🇬🇧"},
	"london": {"United Kingdom", "🇬🇧"}, "manchester": {"United Kingdom", "🇬🇧"},
	"liverpool": {"United Kingdom", "🇬🇧"}, "edinburgh": {"United Kingdom", "🇬🇧"},

	"france": {"France", "🇫🇷"}, "paris": {"France", "🇫🇷"}, "lyon": {"France", "🇫🇷"},
	"nice": {"France", "🇫🇷"}, "marseille": {"France", "🇫🇷"}, "cannes": {"France", "🇫🇷"},

	"germany": {"Germany", "🇩🇪"}, "berlin": {"Germany", "🇩🇪"}, "munich": {"Germany", "🇩🇪"},
	"hamburg": {"Germany", "🇩🇪"}, "frankfurt": {"Germany", "🇩🇪"},

	"italy": {"Italy", "🇮🇹"}, "rome": {"Italy", "🇮🇹"}, "milano": {"Italy", "🇮🇹"},
	"venice": {"Italy", "🇮🇹"}, "florence": {"Italy", "🇮🇹"}, "naples": {"Italy", "🇮🇹"},

	"spain": {"Spain", "🇪🇸"}, "madrid": {"Spain", "🇪🇸"}, "barcelona": {"Spain", "🇪🇸"},
	"seville": {"Spain", "🇪🇸"}, "valencia": {"Spain", "🇪🇸"},

	"greece": {"Greece", "🇬🇷"}, "athens": {"Greece", "🇬🇷"}, "mykonos": {"Greece", "🇬🇷"},
	"santorini": {"Greece", "🇬🇷"}, "crete": {"Greece", "🇬🇷"},

	"malta": {"Malta", "🇲🇹"}, "valletta": {"Malta", "🇲🇹"},

	"usa": {"United States", "🇺🇸"}, "america": {"United States", "🇺🇸"},
	"new york": {"United States", "🇺🇸"}, "los angeles": {"United States", "🇺🇸"},
	"miami": {"United States", "🇺🇸"}, "las vegas": {"United States", "🇺🇸"},
	"chicago": {"United States", "🇺🇸"},

	"thailand": {"Thailand", "🇹🇭"}, "bangkok": {"Thailand", "🇹🇭"},
	"phuket": {"Thailand", "🇹🇭"}, "pattaya": {"Thailand", "🇹🇭"},

	"turkey": {"Turkey", "🇹🇷"}, "istanbul": {"Turkey", "🇹🇷"}, "antalya": {"Turkey", "🇹🇷"},

	"cyprus": {"Cyprus", "🇨🇾"}, "nicosia": {"Cyprus", "🇨🇾"},

	"netherlands": {"Netherlands", "🇳🇱"}, "amsterdam": {"Netherlands", "🇳🇱"},

	"japan": {"Japan", "🇯🇵"}, "tokyo": {"Japan", "🇯🇵"}, "osaka": {"Japan", "🇯🇵"},
}

// countryPredictor is the AI capability the country lookup falls back to.
type countryPredictor interface {
	PredictCountry(ctx context.Context, destination string) (string, string, error)
}

type CountryService struct {
	ai countryPredictor
}

// NewCountryService builds the destination→country lookup. ai may be nil.
func NewCountryService(ai countryPredictor) *CountryService {
	return &CountryService{ai: ai}
}

// DetectLocal resolves a destination against the static table only.
// Returns nil when unknown.
func (s *CountryService) DetectLocal(destination string) *CountryInfo {
	cleaned := strings.ToLower(strings.TrimSpace(destination))
	if cleaned == "" {
		return nil
	}

	if info, ok := destinationCountries[cleaned]; ok {
		return &info
	}
	// Partial match: "Paris, France" should still resolve.
	for key, info := range destinationCountries {
		if strings.Contains(cleaned, key) {
			return &info
		}
	}
	return nil
}

// Detect resolves a destination, trying the static table first and the AI
// second. Returns nil when neither knows the place.
func (s *CountryService) Detect(ctx context.Context, destination string) *CountryInfo {
	if info := s.DetectLocal(destination); info != nil {
		return info
	}
	if s.ai == nil {
		return nil
	}

	country, flag, err := s.ai.PredictCountry(ctx, destination)
	if err != nil {
		log.Printf("[Countries] AI lookup failed for %q: %v", destination, err)
		return nil
	}
	return &CountryInfo{Country: country, Flag: flag}
}
