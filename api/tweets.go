package api

import (
  "crypto/md5"
  "encoding/hex"
  "encoding/json"
  "errors"
  "fmt"
  "net/http"
  "net/url"
  "strconv"

  "github.com/go-chi/chi/v5"
  "github.com/rs/zerolog/log"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/models"
  "scraper.local/tweets-fetcher/tweets"
)

const HeaderFetchError = "X-Fetch-Error"

type TweetsHandler struct {
  ApiContext *common.ApiContext
  Fetcher    *tweets.Fetcher
}

func NewTweetsRouter(apiContext *common.ApiContext, fetcher *tweets.Fetcher) http.Handler {
  h := TweetsHandler{
    ApiContext: apiContext,
    Fetcher:    fetcher,
  }

  r := chi.NewRouter()
  r.Get("/", h.Listings)
  r.Get("/json", h.Json)
  return r
}

func (h *TweetsHandler) Listings(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.serve(w, r, func(items []*models.Tweet) ([]byte, error) {
    return json.Marshal(tweets.ToTweetsResponse(items))
  })
}

func (h *TweetsHandler) Json(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.serve(w, r, tweets.MarshalTweets)
}

func (h *TweetsHandler) serve(
  w http.ResponseWriter,
  r *http.Request,
  render func([]*models.Tweet) ([]byte, error),
) {
  response := &ResponseHandler{
    Writer: w,
  }

  params, err := ParseParams(r.URL.Query())
  if err != nil {
    response.Error(http.StatusUnprocessableEntity, err.Error())
    return
  }

  username, err := tweets.ResolveUsername(params.UsernameOrUrl)
  if err != nil {
    response.Error(http.StatusBadRequest, fmt.Sprintf("Could not extract username from URL: %s", params.UsernameOrUrl))
    return
  }

  cacheKey := h.cacheKey(r.URL.Path, username, params)
  if body := h.cached(r, cacheKey); body != nil {
    response.Raw(http.StatusOK, body)
    return
  }

  items, err := h.Fetcher.FetchTweets(r.Context(), username, params)
  kind := tweets.Classify(err)
  if err != nil && len(items) == 0 {
    response.Error(StatusForKind(kind), err.Error())
    return
  }

  body, err := render(items)
  if err != nil {
    response.Error(http.StatusInternalServerError, err.Error())
    return
  }

  if kind != "" {
    w.Header().Set(HeaderFetchError, string(kind))
  } else {
    h.store(r, cacheKey, body)
  }
  response.Raw(http.StatusOK, body)
}

// ParseParams reads the query string, applying the same defaults as the
// command line.
func ParseParams(q url.Values) (*tweets.Params, error) {
  params := tweets.NewParams(q.Get("username_or_url"))
  if params.UsernameOrUrl == "" {
    return nil, errors.New("username_or_url is required")
  }

  if q.Has("limit") {
    limit, err := strconv.Atoi(q.Get("limit"))
    if err != nil {
      return nil, errors.New("limit must be an integer")
    }
    params.Limit = limit
  }
  if params.Limit < config.API_LIMIT_MIN || params.Limit > config.API_LIMIT_MAX {
    return nil, fmt.Errorf("limit must be between %d and %d", config.API_LIMIT_MIN, config.API_LIMIT_MAX)
  }

  for key, dst := range map[string]*bool{
    "include_retweets": &params.IncludeRetweets,
    "exclude_pinned":   &params.ExcludePinned,
    "only_media":       &params.OnlyMedia,
    "only_links":       &params.OnlyLinks,
  } {
    if !q.Has(key) {
      continue
    }
    val, err := common.ParseBool(q.Get(key))
    if err != nil {
      return nil, fmt.Errorf("%s must be a boolean", key)
    }
    *dst = val
  }

  if q.Get("db_path") != "" {
    params.DbPath = q.Get("db_path")
  }
  return params, nil
}

func StatusForKind(kind tweets.ErrorKind) int {
  switch kind {
  case tweets.KindNotFound:
    return http.StatusNotFound
  case tweets.KindTransient:
    return http.StatusServiceUnavailable
  case tweets.KindAuth:
    return http.StatusBadGateway
  }
  return http.StatusInternalServerError
}

func (h *TweetsHandler) cacheKey(path string, username string, params *tweets.Params) string {
  hash := md5.Sum([]byte(fmt.Sprintf(
    "%s|%s|%d|%s|%v|%v|%v|%v",
    path,
    username,
    params.Limit,
    params.DbPath,
    params.IncludeRetweets,
    params.ExcludePinned,
    params.OnlyMedia,
    params.OnlyLinks,
  )))
  return fmt.Sprintf(config.REDIS_KEY_TWEETS_CACHE, hex.EncodeToString(hash[:]))
}

func (h *TweetsHandler) cached(r *http.Request, key string) []byte {
  if h.ApiContext == nil || h.ApiContext.Rdb == nil || h.ApiContext.CacheTTL <= 0 {
    return nil
  }
  val, err := h.ApiContext.Rdb.Get(r.Context(), key).Bytes()
  if err != nil {
    return nil
  }
  return val
}

func (h *TweetsHandler) store(r *http.Request, key string, body []byte) {
  if h.ApiContext == nil || h.ApiContext.Rdb == nil || h.ApiContext.CacheTTL <= 0 {
    return
  }
  if err := h.ApiContext.Rdb.SetEX(r.Context(), key, body, h.ApiContext.CacheTTL).Err(); err != nil {
    log.Warn().Err(err).Msg("tweets cache store failed")
  }
}
