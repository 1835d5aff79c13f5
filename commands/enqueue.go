package commands

import (
  "context"
  "fmt"
  "io"

  "github.com/hibiken/asynq"
  "github.com/rs/zerolog/log"
  "github.com/urfave/cli/v2"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/tasks"
  "scraper.local/tweets-fetcher/tweets"
)

type EnqueueHandler struct {
  Asynq  *asynq.Client
  Ctx    context.Context
  Writer io.Writer
}

func NewEnqueueCommand() *cli.Command {
  var h EnqueueHandler
  return &cli.Command{
    Name:      "enqueue",
    Usage:     "queue a background export of a user's tweets",
    ArgsUsage: "<username_or_url>",
    Flags:     paramsFlags(),
    Before: func(c *cli.Context) error {
      h = EnqueueHandler{
        Asynq:  common.NewAsynqClient(),
        Ctx:    context.Background(),
        Writer: c.App.Writer,
      }
      return nil
    },
    After: func(c *cli.Context) error {
      if h.Asynq != nil {
        h.Asynq.Close()
      }
      return nil
    },
    Action: func(c *cli.Context) error {
      input := c.Args().First()
      if input == "" {
        return cli.Exit("username or url can not be empty", 1)
      }
      params, err := paramsFromContext(c, input)
      if err != nil {
        return cli.Exit(err.Error(), 1)
      }
      if err := h.Process(params); err != nil {
        return cli.Exit(err.Error(), 1)
      }
      return nil
    },
  }
}

func (h *EnqueueHandler) Process(params *tweets.Params) error {
  if _, err := tweets.ResolveUsername(params.UsernameOrUrl); err != nil {
    fmt.Fprintf(h.Writer, "Could not extract username from URL: %s\n", params.UsernameOrUrl)
    return nil
  }
  task := tasks.NewExportsTask(&common.AnsqClientContext{
    Ctx:  h.Ctx,
    Conn: h.Asynq,
  })
  info, err := task.Enqueue(params, 0)
  if err != nil {
    return err
  }
  log.Info().Str("id", info.ID).Str("queue", info.Queue).Msg("export enqueued")
  fmt.Fprintf(h.Writer, "Export of %s queued as %s\n", params.UsernameOrUrl, info.ID)
  return nil
}
