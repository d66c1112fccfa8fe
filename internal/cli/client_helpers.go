package cli

import (
	"flag"
	"strings"

	"viralflow/internal/api"
	"viralflow/internal/config"
)

// backendFlags are the connection flags every backend-facing command shares.
type backendFlags struct {
	configPath *string
	baseURL    *string
}

func addBackendFlags(fs *flag.FlagSet) backendFlags {
	return backendFlags{
		configPath: fs.String("config", config.DefaultSettingsPath, "settings file path"),
		baseURL:    fs.String("base-url", "", "backend base URL (overrides settings)"),
	}
}

func (f backendFlags) settings() (config.Settings, error) {
	settings, err := config.Load(strings.TrimSpace(*f.configPath))
	if err != nil {
		return config.Settings{}, err
	}
	if v := strings.TrimSpace(*f.baseURL); v != "" {
		settings.BaseURL = strings.TrimRight(v, "/")
	}
	return settings, nil
}

func (f backendFlags) client() (*api.Client, config.Settings, error) {
	settings, err := f.settings()
	if err != nil {
		return nil, config.Settings{}, err
	}
	return newBackendClient(settings), settings, nil
}

func newBackendClient(settings config.Settings) *api.Client {
	return api.NewClient(settings.BaseURL, settings.Timeout())
}
