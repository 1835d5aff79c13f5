package workers

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "os"
  "path/filepath"
  "time"

  "github.com/hibiken/asynq"
  "github.com/rs/zerolog/log"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/queue/asynq/jobs"
  "scraper.local/tweets-fetcher/tweets"
)

var ErrExportLocked = errors.New("export already running")

// ExportedEvent is published on NATS_TWEETS_EXPORTED after every export.
type ExportedEvent struct {
  Username string `json:"username"`
  Path     string `json:"path"`
  Count    int    `json:"count"`
  Error    string `json:"error,omitempty"`
}

type Tweets struct {
  AnsqContext *common.AnsqServerContext
  Fetcher     *tweets.Fetcher
  ExportPath  string
}

func NewTweets(ansqContext *common.AnsqServerContext, fetcher *tweets.Fetcher) *Tweets {
  return &Tweets{
    AnsqContext: ansqContext,
    Fetcher:     fetcher,
    ExportPath:  common.GetEnvString("SCRAPER_EXPORT_PATH"),
  }
}

func (h *Tweets) Export(ctx context.Context, t *asynq.Task) error {
  var payload jobs.ExportPayload
  if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Params == nil {
    return fmt.Errorf("invalid export payload: %v: %w", err, asynq.SkipRetry)
  }
  params := payload.Params

  username, err := tweets.ResolveUsername(params.UsernameOrUrl)
  if err != nil {
    return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
  }

  if h.AnsqContext.Rdb != nil {
    mutex := common.NewMutex(
      h.AnsqContext.Rdb,
      ctx,
      fmt.Sprintf(config.LOCKS_TWEETS_EXPORT, username),
    )
    if !mutex.Lock(5 * time.Minute) {
      return ErrExportLocked
    }
    defer mutex.Unlock()
  }

  items, err := h.Fetcher.FetchTweets(ctx, username, params)
  if err != nil && len(items) == 0 {
    var fetchErr *tweets.FetchError
    if errors.As(err, &fetchErr) && !fetchErr.Retryable() {
      h.publish(&ExportedEvent{Username: username, Error: string(fetchErr.Kind)})
      return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
    }
    return err
  }

  output := h.output(username, params)
  if dir := filepath.Dir(output); output != "" && dir != "." {
    if err := os.MkdirAll(dir, 0755); err != nil {
      return err
    }
  }
  path, saveErr := tweets.SaveJSON(items, username, output)
  if saveErr != nil {
    return saveErr
  }
  log.Info().Str("username", username).Str("path", path).Int("count", len(items)).Msg("tweets exported")

  event := &ExportedEvent{
    Username: username,
    Path:     path,
    Count:    len(items),
  }
  if err != nil {
    event.Error = string(tweets.Classify(err))
  }
  h.publish(event)
  return nil
}

func (h *Tweets) output(username string, params *tweets.Params) string {
  if params.Output != "" {
    return params.Output
  }
  if h.ExportPath == "" {
    return ""
  }
  return filepath.Join(h.ExportPath, tweets.DefaultOutput(username))
}

func (h *Tweets) publish(event *ExportedEvent) {
  if h.AnsqContext.Nats == nil {
    return
  }
  data, err := json.Marshal(event)
  if err != nil {
    return
  }
  if err := h.AnsqContext.Nats.Publish(config.NATS_TWEETS_EXPORTED, data); err != nil {
    log.Warn().Err(err).Str("username", event.Username).Msg("publish exported event failed")
  }
}

func (h *Tweets) Register() error {
  h.AnsqContext.Mux.HandleFunc(config.ASYNQ_JOBS_TWEETS_EXPORT, h.Export)
  return nil
}
