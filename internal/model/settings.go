package model

// Settings holds process-wide user preferences.
type Settings struct {
	DefaultTargetFrequency int    `json:"default_target_frequency"`
	Theme                  string `json:"theme"`
}

var validThemes = map[string]bool{"light": true, "dark": true, "auto": true}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		DefaultTargetFrequency: DefaultTargetFrequencyDays,
		Theme:                  "auto",
	}
}

// Validate checks the settings are usable.
func (s *Settings) Validate() error {
	if s.DefaultTargetFrequency < 1 {
		return invalid("default_target_frequency", "must be at least 1")
	}
	if !validThemes[s.Theme] {
		return invalid("theme", "must be light, dark or auto")
	}
	return nil
}
