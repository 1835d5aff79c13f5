package common

import (
  "os"
  "path"
  "path/filepath"
  "strconv"
  "strings"

  "github.com/joho/godotenv"
)

func LoadEnv() {
  if err := godotenv.Load(path.Join(filepath.Dir(os.Args[0]), ".env")); err != nil {
    dir, _ := os.Getwd()
    godotenv.Load(path.Join(dir, ".env"))
  }
}

func GetEnvString(key string) string {
  return os.Getenv(key)
}

func GetEnvStringOr(key string, fallback string) string {
  if val := os.Getenv(key); val != "" {
    return val
  }
  return fallback
}

func GetEnvInt(key string) int {
  val, _ := strconv.Atoi(os.Getenv(key))
  return val
}

func GetEnvIntOr(key string, fallback int) int {
  val, err := strconv.Atoi(os.Getenv(key))
  if err != nil {
    return fallback
  }
  return val
}

func GetEnvBool(key string) bool {
  val, _ := ParseBool(os.Getenv(key))
  return val
}

// GetEnvArray splits a ";" separated value, empty items are dropped.
func GetEnvArray(key string) []string {
  var items []string
  for _, item := range strings.Split(os.Getenv(key), ";") {
    item = strings.TrimSpace(item)
    if item != "" {
      items = append(items, item)
    }
  }
  return items
}

// ParseBool accepts the usual query-string spellings on top of strconv's.
func ParseBool(s string) (bool, error) {
  switch strings.ToLower(strings.TrimSpace(s)) {
  case "yes", "y", "on":
    return true, nil
  case "no", "n", "off":
    return false, nil
  }
  return strconv.ParseBool(s)
}
