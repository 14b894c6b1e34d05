package config

import "github.com/joho/godotenv"

type Config interface {
	EnvConfig
	ClientConfig
	SocialConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Client
	Social
}

func New() Config {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()
	return mainConfig{}
}
