package popup

import "errors"

// ErrNotFound is returned when a popup id does not exist.
var ErrNotFound = errors.New("popup not found")

// Repository defines the contract for popup configuration storage.
//
// Implementations return configs already normalized, so callers never see
// malformed rule values.
type Repository interface {
	Create(cfg *Config) error
	Update(cfg *Config) error
	Delete(id string) error
	GetByID(id string) (*Config, error)
	GetAll() ([]*Config, error)

	// GetEnabled returns the candidate set for eligibility evaluation: every
	// popup with status=enabled.
	GetEnabled() ([]*Config, error)

	// Exists is the cheap existence check used by the event recorder.
	Exists(id string) (bool, error)
}
