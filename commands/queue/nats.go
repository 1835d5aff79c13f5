package queue

import (
  "context"
  "errors"
  "os/signal"

  "github.com/rs/zerolog/log"
  "github.com/urfave/cli/v2"
  "golang.org/x/sys/unix"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/queue/nats"
)

type NatsHandler struct {
  Ctx context.Context
}

func NewNatsCommand() *cli.Command {
  var h NatsHandler
  return &cli.Command{
    Name:  "nats",
    Usage: "log export events",
    Before: func(c *cli.Context) error {
      h = NatsHandler{
        Ctx: context.Background(),
      }
      return nil
    },
    Action: func(c *cli.Context) error {
      if err := h.Run(); err != nil {
        return cli.Exit(err.Error(), 1)
      }
      return nil
    },
  }
}

func (h *NatsHandler) Run() error {
  log.Info().Msg("nats running...")

  nc, err := common.NewNats()
  if err != nil {
    return err
  }
  if nc == nil {
    return errors.New("NATS_URL is not configured")
  }
  defer nc.Close()

  natsContext := &common.NatsContext{
    Conn: nc,
    Ctx:  h.Ctx,
  }
  sub, err := nats.NewWorkers(natsContext).Subscribe()
  if err != nil {
    return err
  }
  defer sub.Unsubscribe()

  ctx, stop := signal.NotifyContext(h.Ctx, unix.SIGINT, unix.SIGTERM)
  defer stop()
  <-ctx.Done()

  return nil
}
