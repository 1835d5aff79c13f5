package api

import (
  "net/http"

  "github.com/go-chi/chi/v5"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/tweets"
)

type EndpointInfo struct {
  Path        string `json:"path"`
  Method      string `json:"method"`
  Description string `json:"description"`
}

type ServiceInfo struct {
  Name        string          `json:"name"`
  Description string          `json:"description"`
  Version     string          `json:"version"`
  Endpoints   []*EndpointInfo `json:"endpoints"`
}

func NewRouter(apiContext *common.ApiContext, fetcher *tweets.Fetcher) http.Handler {
  r := chi.NewRouter()
  r.Use(RequestLogger)
  r.Use(Recoverer)
  r.Get("/", Root)
  r.Mount("/tweets", NewTweetsRouter(apiContext, fetcher))
  return r
}

func Root(w http.ResponseWriter, r *http.Request) {
  response := &ResponseHandler{
    Writer: w,
  }
  response.Json(&ServiceInfo{
    Name:        config.APP_NAME,
    Description: config.APP_DESCRIPTION,
    Version:     config.APP_VERSION,
    Endpoints: []*EndpointInfo{
      {
        Path:        "/tweets",
        Method:      http.MethodGet,
        Description: "Fetch tweets from a Twitter account",
      },
      {
        Path:        "/tweets/json",
        Method:      http.MethodGet,
        Description: "Fetch tweets from a Twitter account and return the raw JSON",
      },
    },
  })
}
