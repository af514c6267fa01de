package config

import "time"

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8722/api",
			Token:   "",
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Path:       "~/.config/enquiry-desk",
			SQLiteFile: "enquiries.db",
		},
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8722,
			AuthToken:    "",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Export: ExportConfig{
			Dir:          ".",
			DateLayout:   "1/2/2006",
			Timezone:     "",
			LegacyQuotes: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
		Contact: ContactConfig{
			WhatsAppNumber:  "+919560002261",
			WhatsAppMessage: "Hi, I just submitted an enquiry on your landing page. I would like to know more.",
			RedirectSeconds: 10,
		},
	}
}
