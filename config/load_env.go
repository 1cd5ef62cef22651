package config

import (
	"log/slog"
	"path/filepath"

	"github.com/subosito/gotenv"
)

// ENV_DIR holds one dotenv file per APP_ENV, e.g. config/envs/.env.dev.
const ENV_DIR = "config/envs"

// LoadEnv loads config/envs/.env.<env> into the process environment. A missing
// file only logs a warning; the OS environment is used as is.
func LoadEnv(env string) {
	envFile := filepath.Join(ENV_DIR, ".env."+env)
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("[Config] No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}
