package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotenvOnce loads a .env file the first time it is called.
// Priority:
// 1) ENV_FILE if set (single path)
// 2) .env files from this package up to the repository root
// 3) .env in the working directory
// Existing variables win unless DOTENV_OVERLOAD=1. NO_DOTENV=1 skips loading.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}

	overload := os.Getenv("DOTENV_OVERLOAD") == "1"
	load := func(paths ...string) {
		if overload {
			_ = godotenv.Overload(paths...)
		} else {
			_ = godotenv.Load(paths...)
		}
	}

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		load(envFile)
		return
	}

	if root, ok := projectRoot(); ok {
		dir := filepath.Dir(thisFile())
		for {
			load(filepath.Join(dir, ".env"))
			if dir == root {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	}

	load(".env")
}

// ProjectPath joins the repository root with rel, falling back to the working directory.
func ProjectPath(rel string) string {
	if root, ok := projectRoot(); ok {
		return filepath.Join(root, rel)
	}
	wd, err := os.Getwd()
	if err != nil {
		return rel
	}
	return filepath.Join(wd, rel)
}

func projectRoot() (string, bool) {
	file := thisFile()
	if file == "" {
		return "", false
	}
	dir := filepath.Dir(file)
	for i := 0; i < 8; i++ {
		if exists(filepath.Join(dir, "go.mod")) || exists(filepath.Join(dir, ".git")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

func thisFile() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return file
}

func exists(p string) bool { _, err := os.Stat(p); return err == nil }
