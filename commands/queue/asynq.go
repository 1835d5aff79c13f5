package queue

import (
  "context"

  "github.com/go-redis/redis/v8"
  "github.com/hibiken/asynq"
  "github.com/nats-io/nats.go"
  "github.com/rs/zerolog/log"
  "github.com/urfave/cli/v2"

  "scraper.local/tweets-fetcher/common"
  queueAsynq "scraper.local/tweets-fetcher/queue/asynq"
  "scraper.local/tweets-fetcher/tweets"
)

type AsynqHandler struct {
  Rdb  *redis.Client
  Ctx  context.Context
  Nats *nats.Conn
}

func NewAsynqCommand() *cli.Command {
  var h AsynqHandler
  return &cli.Command{
    Name:  "asynq",
    Usage: "run the export workers",
    Before: func(c *cli.Context) error {
      nc, err := common.NewNats()
      if err != nil {
        log.Warn().Err(err).Msg("nats unavailable, export events disabled")
      }
      h = AsynqHandler{
        Rdb:  common.NewRedis(),
        Ctx:  context.Background(),
        Nats: nc,
      }
      return nil
    },
    After: func(c *cli.Context) error {
      if h.Nats != nil {
        h.Nats.Close()
      }
      if h.Rdb != nil {
        h.Rdb.Close()
      }
      return nil
    },
    Action: func(c *cli.Context) error {
      if err := h.run(); err != nil {
        return cli.Exit(err.Error(), 1)
      }
      return nil
    },
  }
}

func (h *AsynqHandler) run() error {
  log.Info().Msg("asynq queue running...")

  mux := asynq.NewServeMux()
  worker := common.NewAsynqServer()

  ansqContext := &common.AnsqServerContext{
    Rdb:  h.Rdb,
    Ctx:  h.Ctx,
    Mux:  mux,
    Nats: h.Nats,
  }

  queueAsynq.NewWorkers(ansqContext, tweets.NewFetcher(nil)).Register()

  if err := worker.Run(mux); err != nil {
    return err
  }

  return nil
}
