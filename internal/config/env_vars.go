package config

import (
	"os"
)

const (
	appNameVar    = "APP_NAME"
	dataFolderVar = "DATA_FOLDER"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "TripGo")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(dataFolderVar, "./data")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
