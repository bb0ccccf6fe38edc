package pomodoro

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sadopc/matcha/internal/store"
)

// ErrInvalidConfig is returned for out-of-range timer settings.
var ErrInvalidConfig = errors.New("pomodoro: invalid config")

const (
	MinSessions = 1
	MaxSessions = 10
)

var (
	FocusChoices = []int{15, 25, 45, 60}
	BreakChoices = []int{5, 10, 15}
)

type Config struct {
	Sessions     int
	FocusMinutes int
	BreakMinutes int
}

func DefaultConfig() Config {
	return Config{Sessions: 3, FocusMinutes: 25, BreakMinutes: 5}
}

func (c Config) Validate() error {
	if c.Sessions < MinSessions || c.Sessions > MaxSessions {
		return fmt.Errorf("%w: sessions %d not in %d-%d", ErrInvalidConfig, c.Sessions, MinSessions, MaxSessions)
	}
	if !slices.Contains(FocusChoices, c.FocusMinutes) {
		return fmt.Errorf("%w: focus %d minutes not one of %v", ErrInvalidConfig, c.FocusMinutes, FocusChoices)
	}
	if !slices.Contains(BreakChoices, c.BreakMinutes) {
		return fmt.Errorf("%w: break %d minutes not one of %v", ErrInvalidConfig, c.BreakMinutes, BreakChoices)
	}
	return nil
}

func (c Config) focusSeconds() int { return c.FocusMinutes * 60 }
func (c Config) breakSeconds() int { return c.BreakMinutes * 60 }

// Settings converts c into the persisted settings payload.
func (c Config) Settings() store.PomodoroSettings {
	return store.PomodoroSettings{
		Sessions:     c.Sessions,
		FocusMinutes: c.FocusMinutes,
		BreakMinutes: c.BreakMinutes,
	}
}

func FromSettings(ps store.PomodoroSettings) Config {
	return Config{
		Sessions:     ps.Sessions,
		FocusMinutes: ps.FocusMinutes,
		BreakMinutes: ps.BreakMinutes,
	}
}

// SettingsReader is the part of the store that holds the persisted config.
type SettingsReader interface {
	GetPomodoroSettings() (store.PomodoroSettings, bool, error)
}

// LoadConfig reads the persisted config. A missing or invalid record yields
// DefaultConfig; only read failures are returned.
func LoadConfig(r SettingsReader) (Config, error) {
	ps, ok, err := r.GetPomodoroSettings()
	if err != nil {
		return DefaultConfig(), fmt.Errorf("load pomodoro config: %w", err)
	}
	if !ok {
		return DefaultConfig(), nil
	}
	cfg := FromSettings(ps)
	if cfg.Validate() != nil {
		return DefaultConfig(), nil
	}
	return cfg, nil
}
