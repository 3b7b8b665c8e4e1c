package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "/usr/local/var/vitrine/catalog.yaml"
	}
	if cfg.Catalog.ReloadDebounceMs == 0 {
		cfg.Catalog.ReloadDebounceMs = 400
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/vitrine/data/vitrine.db"
	}
	if cfg.Storage.FilePath == "" {
		cfg.Storage.FilePath = "/usr/local/var/vitrine/data/state.json"
	}
	if cfg.Storage.Redis.Addr == "" {
		cfg.Storage.Redis.Addr = "localhost:6379"
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 50
	}
	if cfg.Search.DebounceMs == 0 {
		cfg.Search.DebounceMs = 300
	}
	if cfg.Search.SuggestionThreshold == 0 {
		cfg.Search.SuggestionThreshold = 0.35
	}
	if cfg.Search.MaxSuggestions == 0 {
		cfg.Search.MaxSuggestions = 8
	}
	if cfg.Search.HighlightOpen == "" && cfg.Search.HighlightClose == "" {
		cfg.Search.HighlightOpen = "<mark>"
		cfg.Search.HighlightClose = "</mark>"
	}
	// The top-level threshold wins over the nested ranking value.
	if cfg.Search.TechFilterThreshold != 0 {
		cfg.Search.Ranking.TechFilterThreshold = cfg.Search.TechFilterThreshold
	}
	cfg.Search.Ranking.ApplyDefaults()
	cfg.Search.TechFilterThreshold = cfg.Search.Ranking.TechFilterThreshold

	if cfg.History.Namespace == "" {
		cfg.History.Namespace = "vitrine"
	}
	if cfg.History.RecentLimit == 0 {
		cfg.History.RecentLimit = 10
	}
	if cfg.History.HistoryLimit == 0 {
		cfg.History.HistoryLimit = 50
	}
	if cfg.History.FrequencyLimit == 0 {
		cfg.History.FrequencyLimit = 100
	}
	if cfg.History.PopularLimit == 0 {
		cfg.History.PopularLimit = 5
	}
	if cfg.Modal.MaxModals == 0 {
		cfg.Modal.MaxModals = 10
	}
	if cfg.Modal.BaseStackIndex == 0 {
		cfg.Modal.BaseStackIndex = 1000
	}
}
