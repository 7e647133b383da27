// Package profile persists the local user's profile and preference switches.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"event-explorer/internal/apperr"
	"event-explorer/internal/kvstore"
	"event-explorer/internal/logger"
	"event-explorer/internal/models"
)

// Key is the kvstore key holding the JSON-encoded profile.
const Key = "userData"

const (
	PrefNotifications    = "notifications"
	PrefLocationServices = "locationServices"
	PrefEmailUpdates     = "emailUpdates"
	PrefDarkMode         = "darkMode"
)

type Store struct {
	mu      sync.Mutex
	current models.Profile
	kv      kvstore.Store
	logger  *logger.Logger
}

// Open loads the stored profile, or the default one if nothing is stored.
func Open(ctx context.Context, kv kvstore.Store, log *logger.Logger) (*Store, error) {
	s := &Store{current: models.DefaultProfile(), kv: kv, logger: log}

	raw, err := kv.Get(ctx, Key)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("%w: load profile: %v", apperr.ErrPersistence, err)
	}
	if len(raw) == 0 {
		return s, nil
	}

	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", apperr.ErrPersistence, err)
	}
	s.current = p
	return s, nil
}

func (s *Store) Get() models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update validates p and replaces the stored profile.
func (s *Store) Update(ctx context.Context, p models.Profile) (models.Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	if err := Validate(p); err != nil {
		return models.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(ctx, p); err != nil {
		return models.Profile{}, err
	}
	s.logger.Info("PROFILE", "Profile updated")
	return p, nil
}

// SetPreference sets one named preference switch.
func (s *Store) SetPreference(ctx context.Context, name string, value bool) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.current
	switch name {
	case PrefNotifications:
		p.Preferences.Notifications = value
	case PrefLocationServices:
		p.Preferences.LocationServices = value
	case PrefEmailUpdates:
		p.Preferences.EmailUpdates = value
	case PrefDarkMode:
		p.Preferences.DarkMode = value
	default:
		return models.Profile{}, apperr.Invalid("preference", fmt.Sprintf("unknown preference %q", name))
	}

	if err := s.save(ctx, p); err != nil {
		return models.Profile{}, err
	}
	s.logger.Debug("PROFILE", fmt.Sprintf("Preference %s set to %t", name, value))
	return p, nil
}

// Reset clears the stored profile and goes back to the default.
func (s *Store) Reset(ctx context.Context) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, Key); err != nil {
		return models.Profile{}, fmt.Errorf("%w: clear profile: %v", apperr.ErrPersistence, err)
	}
	s.current = models.DefaultProfile()
	s.logger.Info("PROFILE", "Profile reset to defaults")
	return s.current, nil
}

// save must be called with mu held.
func (s *Store) save(ctx context.Context, p models.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: encode profile: %v", apperr.ErrPersistence, err)
	}
	if err := s.kv.Set(ctx, Key, data); err != nil {
		s.logger.Error("PROFILE", fmt.Sprintf("Failed to save profile: %v", err))
		return fmt.Errorf("%w: save profile: %v", apperr.ErrPersistence, err)
	}
	s.current = p
	return nil
}

// Validate applies the contact form rules: name and email required, email
// must contain '@'.
func Validate(p models.Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Invalid("name", "Please enter your name")
	}
	email := strings.TrimSpace(p.Email)
	if email == "" {
		return apperr.Invalid("email", "Please enter your email")
	}
	if !strings.Contains(email, "@") {
		return apperr.Invalid("email", "Please enter a valid email address")
	}
	return nil
}
