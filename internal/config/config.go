package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config carries everything the tooling around the parser needs. The parser
// itself takes no configuration.
type Config struct {
	ClientID     int    // osu! OAuth application id
	ClientSecret string // osu! OAuth application secret
	OsuSession   string // osu_session cookie for .osz downloads
	DBPath       string // sqlite index location
	WorkerCount  int    // parallel parses during indexing
}

// Load reads .env if present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		ClientID:     getEnvInt("OSU_CLIENT_ID", 0),
		ClientSecret: getEnv("OSU_CLIENT_SECRET", ""),
		OsuSession:   getEnv("OSU_SESSION", ""),
		DBPath:       getEnv("OSUPARSE_DB", "osuparse.db"),
		WorkerCount:  getEnvInt("WORKER_COUNT", 8),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
