package core

// ProjectConfig holds the settings a cratesql run is configured with.
type ProjectConfig struct {
	Dialect               string        `koanf:"dialect"`
	ServerVersion         string        `koanf:"server_version"`
	ParameterizeConstants bool          `koanf:"parameterize_constants"`
	Placeholder           string        `koanf:"placeholder"`
	Output                string        `koanf:"output"`
	Verbose               bool          `koanf:"verbose"`
	Target                *TargetConfig `koanf:"target"`
}

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type     string `koanf:"type"` // postgres, cratedb
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// AdminDatabase is the database version discovery connects to
	// ("template1" when empty).
	AdminDatabase string `koanf:"admin_database"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// AdapterConfig converts the target into adapter connection settings.
func (t *TargetConfig) AdapterConfig() AdapterConfig {
	if t == nil {
		return AdapterConfig{}
	}
	return AdapterConfig{
		Type:     t.Type,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Options:  t.Options,
	}
}
