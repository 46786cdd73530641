package config

type ServerConfig struct {
	Port        int
	LogLevel    string
	LogFormat   string
	BaseURL     string
	CORSOrigins []string
	BodyLimit   int
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnvInt("SERVER_PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		CORSOrigins: getEnvStringSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		BodyLimit:   getEnvInt("SERVER_BODY_LIMIT", 12*1024*1024),
	}
}
