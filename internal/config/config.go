package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var (
	envOnce sync.Once
	envFile string
)

// EnvFileCandidates lists where a .env file is looked for, in order.
func EnvFileCandidates() []string {
	candidates := []string{".env", filepath.Join(".daily-budget", ".env")}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".daily-budget", ".env"))
	}
	return candidates
}

// LoadEnv loads the first .env file found and returns its path, or "" when
// none exists. Variables already set in the environment win. Only the first
// call does any work.
func LoadEnv() string {
	envOnce.Do(func() {
		for _, candidate := range EnvFileCandidates() {
			info, err := os.Stat(candidate)
			if err != nil || info.IsDir() {
				continue
			}
			if err := godotenv.Load(candidate); err != nil {
				continue
			}
			envFile = candidate
			return
		}
	})
	return envFile
}
