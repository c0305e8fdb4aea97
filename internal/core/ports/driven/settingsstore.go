package driven

import "github.com/custodia-labs/askdoc-cli/internal/core/domain"

// SettingsStore persists the typed configuration.
type SettingsStore interface {
	// Load reads the stored settings, returning defaults when no
	// configuration exists yet.
	Load() (*domain.Settings, error)

	// Save persists the settings.
	Save(settings *domain.Settings) error

	// Path returns the location of the backing file, for display.
	Path() string
}
