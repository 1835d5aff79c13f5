package commands

import (
  "context"
  "fmt"
  "io"
  "time"

  "github.com/rs/zerolog/log"
  "github.com/urfave/cli/v2"
  "gorm.io/gorm"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/repositories"
)

type AccountsHandler struct {
  Db         *gorm.DB
  Ctx        context.Context
  Writer     io.Writer
  Repository *repositories.AccountsRepository
}

func NewAccountsCommand() *cli.Command {
  var h AccountsHandler
  return &cli.Command{
    Name:  "accounts",
    Usage: "manage the accounts used for fetching",
    Flags: []cli.Flag{
      &cli.StringFlag{
        Name:    "db-path",
        Usage:   "accounts database path",
        Value:   config.DEFAULT_DB_PATH,
        EnvVars: []string{"SCRAPER_DB_PATH"},
      },
    },
    Before: func(c *cli.Context) error {
      db, err := common.NewDB(c.String("db-path"))
      if err != nil {
        return cli.Exit(err.Error(), 1)
      }
      h = AccountsHandler{
        Db:     db,
        Ctx:    context.Background(),
        Writer: c.App.Writer,
      }
      h.Repository = &repositories.AccountsRepository{
        Db:     h.Db,
        Secret: common.GetEnvString("SCRAPER_ACCOUNTS_SECRET"),
      }
      if err := h.Repository.Migrate(); err != nil {
        return cli.Exit(err.Error(), 1)
      }
      return nil
    },
    After: func(c *cli.Context) error {
      if h.Db != nil {
        common.CloseDB(h.Db)
      }
      return nil
    },
    Subcommands: []*cli.Command{
      {
        Name:      "add",
        Usage:     "add or replace an account by its session cookie",
        ArgsUsage: "<username> <cookie>",
        Flags: []cli.Flag{
          &cli.StringFlag{
            Name:  "agent",
            Usage: "user agent, defaults to SCRAPER_AGENT",
          },
          &cli.StringFlag{
            Name:  "proxy",
            Usage: "http or socks5 proxy url",
          },
          &cli.BoolFlag{
            Name:  "flush",
            Usage: "refresh the account tokens right away",
            Value: true,
          },
        },
        Action: func(c *cli.Context) error {
          username := c.Args().Get(0)
          if username == "" {
            return cli.Exit("account username can not be empty", 1)
          }
          cookie := c.Args().Get(1)
          if cookie == "" {
            return cli.Exit("account cookie can not be empty", 1)
          }
          if err := h.Add(username, cookie, c.String("agent"), c.String("proxy"), c.Bool("flush")); err != nil {
            return cli.Exit(err.Error(), 1)
          }
          return nil
        },
      },
      {
        Name:  "list",
        Usage: "list accounts and their state",
        Action: func(c *cli.Context) error {
          if err := h.List(); err != nil {
            return cli.Exit(err.Error(), 1)
          }
          return nil
        },
      },
      {
        Name:  "login",
        Usage: "refresh the tokens of all active accounts",
        Action: func(c *cli.Context) error {
          if err := h.Login(); err != nil {
            return cli.Exit(err.Error(), 1)
          }
          return nil
        },
      },
    },
  }
}

func (h *AccountsHandler) Add(username string, cookie string, agent string, proxy string, flush bool) error {
  log.Info().Str("username", username).Msg("accounts add...")
  account, err := h.Repository.Add(username, cookie, agent, proxy)
  if err != nil {
    return err
  }
  if flush {
    if err := h.Repository.Flush(h.Ctx, account); err != nil {
      log.Warn().Err(err).Str("username", username).Msg("account flush failed")
    }
  }
  fmt.Fprintf(h.Writer, "account %s saved\n", account.Username)
  return nil
}

func (h *AccountsHandler) List() error {
  accounts, err := h.Repository.All()
  if err != nil {
    return err
  }
  if len(accounts) == 0 {
    fmt.Fprintln(h.Writer, "no accounts")
    return nil
  }
  now := time.Now().UnixMicro()
  for _, account := range accounts {
    state := "active"
    if account.Status != config.ACCOUNT_STATUS_ACTIVE {
      state = "disabled"
    } else if account.UnblockedAt > now {
      state = fmt.Sprintf("blocked until %s", time.UnixMicro(account.UnblockedAt).Format(time.RFC3339))
    }
    flushed := "never"
    if account.FlushedAt > 0 {
      flushed = time.UnixMicro(account.FlushedAt).Format(time.RFC3339)
    }
    fmt.Fprintf(h.Writer, "%s\t%s\tflushed: %s\tproxy: %s\n", account.Username, state, flushed, account.Proxy)
  }
  return nil
}

func (h *AccountsHandler) Login() error {
  log.Info().Msg("accounts login...")
  active, err := h.Repository.LoginAll(h.Ctx)
  if err != nil {
    return err
  }
  fmt.Fprintf(h.Writer, "%d active accounts\n", active)
  return nil
}
