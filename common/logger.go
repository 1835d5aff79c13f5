package common

import (
  "os"
  "strings"
  "time"

  "github.com/rs/zerolog"
  "github.com/rs/zerolog/log"
)

func SetupLogger(level string, format string) {
  lvl, err := zerolog.ParseLevel(strings.ToLower(level))
  if err != nil || level == "" {
    lvl = zerolog.InfoLevel
  }
  zerolog.SetGlobalLevel(lvl)
  zerolog.TimeFieldFormat = time.RFC3339

  if format == "json" {
    log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
    return
  }
  log.Logger = log.Output(zerolog.ConsoleWriter{
    Out:        os.Stderr,
    TimeFormat: "15:04:05",
  })
}
