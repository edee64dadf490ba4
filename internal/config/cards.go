package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/eventdeck/pkg/domain"
)

// LoadCards reads a card list keyed by feed mode. YAML and JSON are both
// accepted. An empty path yields SampleCards.
func LoadCards(path string) (map[domain.FeedMode][]domain.Card, error) {
	if path == "" {
		return SampleCards(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}
	feeds := map[domain.FeedMode][]domain.Card{}
	if err := yaml.Unmarshal(data, &feeds); err != nil {
		return nil, fmt.Errorf("failed to parse cards %s: %w", path, err)
	}
	for mode, cards := range feeds {
		if !mode.Valid() {
			return nil, fmt.Errorf("cards %s: unknown feed mode %q", path, mode)
		}
		seen := make(map[string]struct{}, len(cards))
		for i, c := range cards {
			if c.ID == "" {
				return nil, fmt.Errorf("cards %s: %s[%d] has no id", path, mode, i)
			}
			if _, dup := seen[c.ID]; dup {
				return nil, fmt.Errorf("cards %s: duplicate id %q in %s", path, c.ID, mode)
			}
			seen[c.ID] = struct{}{}
		}
	}
	return feeds, nil
}

// SampleCards is a small built-in feed for demos.
func SampleCards() map[domain.FeedMode][]domain.Card {
	return map[domain.FeedMode][]domain.Card{
		domain.FeedModeEvents: {
			{ID: "evt-jazz", Title: "Jazz en el parque", Category: "Música", Date: "2026-11-07", Time: "19:00", Location: "Parque Central"},
			{ID: "evt-market", Title: "Mercado de artesanos", Category: "Cultura", Date: "2026-11-08", Time: "10:00", Location: "Plaza Mayor"},
			{ID: "evt-run", Title: "Carrera 10K", Category: "Deporte", Date: "2026-11-15", Time: "08:00", Location: "Costanera"},
			{ID: "evt-film", Title: "Cine bajo las estrellas", Category: "Cine", Date: "2026-11-21", Time: "21:00", Location: "Terraza Norte"},
		},
		domain.FeedModeLent: {
			{ID: "lent-viacrucis", Title: "Vía Crucis", Category: "Cuaresma", Date: "2027-03-05", Time: "18:00", Location: "Catedral"},
			{ID: "lent-retiro", Title: "Retiro de silencio", Category: "Cuaresma", Date: "2027-03-13", Time: "09:00", Location: "Casa de retiros"},
		},
	}
}
