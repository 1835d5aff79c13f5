package jobs

import (
  "encoding/json"

  "github.com/hibiken/asynq"

  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/tweets"
)

type ExportPayload struct {
  Params *tweets.Params `json:"params"`
}

type Tweets struct{}

func (h *Tweets) Export(params *tweets.Params) (*asynq.Task, error) {
  payload, err := json.Marshal(ExportPayload{params})
  if err != nil {
    return nil, err
  }
  return asynq.NewTask(config.ASYNQ_JOBS_TWEETS_EXPORT, payload), nil
}
