package commands

import (
  "context"
  "fmt"
  "os/signal"
  "strings"

  "github.com/hibiken/asynq"
  "github.com/robfig/cron/v3"
  "github.com/rs/zerolog/log"
  "github.com/urfave/cli/v2"
  "golang.org/x/sys/unix"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/tasks"
  "scraper.local/tweets-fetcher/tweets"
)

type CronHandler struct {
  Asynq *asynq.Client
  Ctx   context.Context
}

func NewCronCommand() *cli.Command {
  var h CronHandler
  flags := append(paramsFlags(),
    &cli.StringFlag{
      Name:    "schedule",
      Usage:   "cron schedule of the exports",
      Value:   "@every 1h",
      EnvVars: []string{"SCRAPER_EXPORT_SCHEDULE"},
    },
    &cli.StringSliceFlag{
      Name:  "users",
      Usage: "handles or profile urls to export, defaults to SCRAPER_EXPORT_USERS",
    },
  )
  return &cli.Command{
    Name:  "cron",
    Usage: "enqueue exports on a schedule",
    Flags: flags,
    Before: func(c *cli.Context) error {
      h = CronHandler{
        Asynq: common.NewAsynqClient(),
        Ctx:   context.Background(),
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
      users := c.StringSlice("users")
      if len(users) == 0 {
        users = common.GetEnvArray("SCRAPER_EXPORT_USERS")
      }
      if len(users) == 0 {
        return cli.Exit("no users to export", 1)
      }
      if c.Args().Present() {
        return cli.Exit(fmt.Sprintf("unexpected arguments: %s", strings.Join(c.Args().Slice(), " ")), 1)
      }
      template, err := paramsFromContext(c, "")
      if err != nil {
        return cli.Exit(err.Error(), 1)
      }
      if err := h.run(c.String("schedule"), users, template); err != nil {
        return cli.Exit(err.Error(), 1)
      }
      return nil
    },
  }
}

func (h *CronHandler) run(schedule string, users []string, template *tweets.Params) error {
  log.Info().Str("schedule", schedule).Strs("users", users).Msg("cron running...")

  ansqContext := &common.AnsqClientContext{
    Ctx:  h.Ctx,
    Conn: h.Asynq,
  }
  exports := tasks.NewExportsTask(ansqContext)

  c := cron.New()
  if _, err := c.AddFunc(schedule, func() {
    exports.Process(users, template)
  }); err != nil {
    return err
  }
  c.Start()
  defer func() {
    <-c.Stop().Done()
  }()

  ctx, stop := signal.NotifyContext(h.Ctx, unix.SIGINT, unix.SIGTERM)
  defer stop()
  <-ctx.Done()

  return nil
}
