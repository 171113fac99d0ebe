package search

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/flymate/internal/domain"
)

const DefaultSuggestLimit = 8

type Suggestion struct {
	City        string `json:"city"`
	IATA        string `json:"iata"`
	Airport     string `json:"airport"`
	Country     string `json:"country"`
	DisplayText string `json:"displayText"`
}

// Directory resolves free-text city input to IATA codes.
// A bare city name resolves to its first airport; "City (IATA)" picks that exact airport.
type Directory struct {
	airports []domain.Airport
	byCity   map[string]string
	byIATA   map[string]string
	pairs    map[cityCode]string
}

type cityCode struct {
	city string
	iata string
}

func NewDirectory(airports []domain.Airport) *Directory {
	d := &Directory{
		airports: airports,
		byCity:   make(map[string]string, len(airports)),
		byIATA:   make(map[string]string, len(airports)),
		pairs:    make(map[cityCode]string, len(airports)),
	}
	for _, a := range airports {
		city := strings.ToLower(a.City)
		if _, ok := d.byCity[city]; !ok {
			d.byCity[city] = a.IATA
		}
		d.byIATA[strings.ToUpper(a.IATA)] = a.IATA
		d.pairs[cityCode{city: city, iata: strings.ToUpper(a.IATA)}] = a.IATA
	}
	return d
}

func DisplayText(a domain.Airport) string {
	return fmt.Sprintf("%s (%s)", a.City, a.IATA)
}

// Suggest returns airports whose city contains query, in directory order.
func (d *Directory) Suggest(query string, limit int) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Suggestion, 0)
	if q == "" {
		return out
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	for _, a := range d.airports {
		if !strings.Contains(strings.ToLower(a.City), q) {
			continue
		}
		out = append(out, Suggestion{
			City:        a.City,
			IATA:        a.IATA,
			Airport:     a.Airport,
			Country:     a.Country,
			DisplayText: DisplayText(a),
		})
		if len(out) == limit {
			break
		}
	}
	return out
}

// Resolve accepts a city name, a "City (IATA)" display text or a bare IATA code.
func (d *Directory) Resolve(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", domain.ErrUnresolvedCity
	}

	if code, ok := d.byCity[strings.ToLower(s)]; ok {
		return code, nil
	}

	if open := strings.LastIndex(s, "("); open > 0 && strings.HasSuffix(s, ")") {
		city := strings.ToLower(strings.TrimSpace(s[:open]))
		code := strings.ToUpper(strings.TrimSpace(s[open+1 : len(s)-1]))
		if iata, ok := d.pairs[cityCode{city: city, iata: code}]; ok {
			return iata, nil
		}
	}

	if iata, ok := d.byIATA[strings.ToUpper(s)]; ok {
		return iata, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnresolvedCity, input)
}
