package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"event-explorer/internal/models"
)

//go:embed data/events.json
var sampleJSON []byte

// SampleEvents decodes the bundled dataset. Each call returns fresh values.
func SampleEvents() ([]models.Event, error) {
	var events []models.Event
	if err := json.Unmarshal(sampleJSON, &events); err != nil {
		return nil, fmt.Errorf("decode bundled events: %w", err)
	}
	return events, nil
}
