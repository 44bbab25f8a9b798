package configuration

import (
	"bufio"
	"os"
	"strings"

	"github.com/FawadAli-1/xautomation-backend/infrastructure/logger"
)

// LoadEnvFromFile seeds the process environment from KEY=VALUE files
// (config.env, .env) before LoadConfig runs its override pass. Values
// already present in the environment win, so a deployment can always
// override the file. Missing files are skipped silently.
func LoadEnvFromFile(paths ...string) {
	for _, path := range paths {
		applied, err := applyEnvFile(path)
		if err != nil {
			continue
		}
		logger.GetLogger().WithField("file", path).WithField("applied", applied).Info("Environment file loaded")
	}
}

func applyEnvFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	applied := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if os.Setenv(key, value) == nil {
			applied++
		}
	}
	return applied, scanner.Err()
}

// parseEnvLine understands KEY=VALUE with optional quotes and an optional
// leading "export". Blank lines and # comments are skipped.
func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	value = strings.Trim(strings.TrimSpace(value), `"'`)
	return key, value, true
}
