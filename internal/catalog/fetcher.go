package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"event-explorer/internal/apperr"
	"event-explorer/internal/logger"
	"event-explorer/internal/models"
)

// Fetcher does the one-shot catalog download. No auth, no retry.
type Fetcher struct {
	client *http.Client
	url    string
	logger *logger.Logger
}

func NewFetcher(client *http.Client, url string, log *logger.Logger) *Fetcher {
	return &Fetcher{client: client, url: url, logger: log}
}

// Fetch returns the remote events. Every failure wraps apperr.ErrCatalogUnavailable.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.Event, error) {
	f.logger.Debug("CATALOG", fmt.Sprintf("Fetching catalog: %s", f.url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", apperr.ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrCatalogUnavailable, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			f.logger.Error("CATALOG", fmt.Sprintf("Failed to close catalog response body: %v", err))
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: catalog service returned status %d", apperr.ErrCatalogUnavailable, resp.StatusCode)
	}

	var events []models.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", apperr.ErrCatalogUnavailable, err)
	}

	f.logger.Info("CATALOG", fmt.Sprintf("Fetched %d events from %s", len(events), f.url))
	return events, nil
}

// Load builds the catalog from f, falling back to the bundled sample data
// when f is nil or the fetch fails. The fallback is always logged.
func Load(ctx context.Context, f *Fetcher, log *logger.Logger) (*Store, error) {
	if f == nil || f.url == "" {
		log.Info("CATALOG", "No remote catalog configured, using bundled sample data")
		return loadSample(log)
	}

	events, err := f.Fetch(ctx)
	if err != nil {
		log.Warn("CATALOG", fmt.Sprintf("Remote catalog unavailable, falling back to bundled sample data: %v", err))
		return loadSample(log)
	}
	if len(events) == 0 {
		log.Warn("CATALOG", "Remote catalog is empty, falling back to bundled sample data")
		return loadSample(log)
	}

	store, err := New(events, log)
	if err != nil {
		log.Warn("CATALOG", fmt.Sprintf("Remote catalog rejected, falling back to bundled sample data: %v", err))
		return loadSample(log)
	}
	log.Info("CATALOG", fmt.Sprintf("✅ Catalog loaded with %d remote events", store.Len()))
	return store, nil
}

func loadSample(log *logger.Logger) (*Store, error) {
	events, err := SampleEvents()
	if err != nil {
		return nil, err
	}
	store, err := New(events, log)
	if err != nil {
		return nil, err
	}
	log.Info("CATALOG", fmt.Sprintf("✅ Catalog loaded with %d bundled events", store.Len()))
	return store, nil
}
