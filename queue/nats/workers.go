package nats

import (
  "encoding/json"

  "github.com/nats-io/nats.go"
  "github.com/rs/zerolog/log"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/queue/asynq/workers"
)

type Workers struct {
  NatsContext *common.NatsContext
}

func NewWorkers(natsContext *common.NatsContext) *Workers {
  return &Workers{
    NatsContext: natsContext,
  }
}

// Subscribe logs every export event until the connection is drained.
func (h *Workers) Subscribe() (*nats.Subscription, error) {
  return h.NatsContext.Conn.Subscribe(config.NATS_TWEETS_EXPORTED, h.Exported)
}

func (h *Workers) Exported(m *nats.Msg) {
  var event workers.ExportedEvent
  if err := json.Unmarshal(m.Data, &event); err != nil {
    log.Warn().Err(err).Msg("invalid exported event")
    return
  }
  if event.Error != "" && event.Path == "" {
    log.Error().Str("username", event.Username).Str("kind", event.Error).Msg("export failed")
    return
  }
  log.Info().
    Str("username", event.Username).
    Str("path", event.Path).
    Int("count", event.Count).
    Str("error", event.Error).
    Msg("export finished")
}
