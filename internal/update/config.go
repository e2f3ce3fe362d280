package update

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nekoplan/nekoplan/internal/notify"
)

type RuntimeConfig struct {
	StorePath            string
	NightStartHour       int
	NightEndHour         int
	DesktopNotifications bool
	PredictorEnabled     bool
	SchedulerBuffer      int
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		StorePath:            DefaultStorePath(),
		NightStartHour:       19,
		NightEndHour:         22,
		DesktopNotifications: false,
		PredictorEnabled:     true,
		SchedulerBuffer:      16,
	}
}

// DefaultStorePath is ~/.nekoplan/tasks.json, falling back to the
// working directory when the home directory is unknown.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tasks.json"
	}
	return filepath.Join(home, ".nekoplan", "tasks.json")
}

func (c RuntimeConfig) Window() notify.Window {
	return notify.Window{StartHour: c.NightStartHour, EndHour: c.NightEndHour}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("NEKOPLAN_STORE")); v != "" {
		cfg.StorePath = v
	}
	if v, ok := getEnvInt("NEKOPLAN_NIGHT_START"); ok && v >= 0 && v <= 23 {
		cfg.NightStartHour = v
	}
	if v, ok := getEnvInt("NEKOPLAN_NIGHT_END"); ok && v >= 0 && v <= 23 {
		cfg.NightEndHour = v
	}
	if v, ok := getEnvBool("NEKOPLAN_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvBool("NEKOPLAN_PREDICT"); ok {
		cfg.PredictorEnabled = v
	}
	if v, ok := getEnvInt("NEKOPLAN_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
