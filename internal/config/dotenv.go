package config

import "github.com/joho/godotenv"

var defaultEnvFiles = []string{".env", "../.env", "../../.env"}

// LoadDotEnv loads the first readable env file among paths (or the default
// locations) into the process environment. Variables already set win.
// It returns the loaded path, or "" when none was found.
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = defaultEnvFiles
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}
