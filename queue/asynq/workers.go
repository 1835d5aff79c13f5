package asynq

import (
  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/queue/asynq/workers"
  "scraper.local/tweets-fetcher/tweets"
)

type Workers struct {
  AnsqContext *common.AnsqServerContext
  Fetcher     *tweets.Fetcher
}

func NewWorkers(ansqContext *common.AnsqServerContext, fetcher *tweets.Fetcher) *Workers {
  return &Workers{
    AnsqContext: ansqContext,
    Fetcher:     fetcher,
  }
}

func (h *Workers) Register() error {
  workers.NewTweets(h.AnsqContext, h.Fetcher).Register()
  return nil
}
