package api

import (
  "fmt"
  "net/http"
  "time"

  "github.com/go-chi/chi/v5/middleware"
  "github.com/rs/zerolog/log"
)

// Recoverer turns a panic in a handler into a 500 with the panic text.
func Recoverer(next http.Handler) http.Handler {
  return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    defer func() {
      if rvr := recover(); rvr != nil {
        if rvr == http.ErrAbortHandler {
          panic(rvr)
        }
        log.Error().Interface("panic", rvr).Str("path", r.URL.Path).Msg("handler panic")
        response := &ResponseHandler{
          Writer: w,
        }
        response.Error(http.StatusInternalServerError, fmt.Sprint(rvr))
      }
    }()
    next.ServeHTTP(w, r)
  })
}

func RequestLogger(next http.Handler) http.Handler {
  return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
    start := time.Now()
    defer func() {
      log.Info().
        Str("method", r.Method).
        Str("path", r.URL.Path).
        Int("status", ww.Status()).
        Dur("duration", time.Since(start)).
        Msg("request")
    }()
    next.ServeHTTP(ww, r)
  })
}
