package commands

import (
  "github.com/rs/zerolog/log"
  "github.com/urfave/cli/v2"
  "gorm.io/gorm"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/models"
)

type DbHandler struct {
  Db *gorm.DB
}

func NewDbCommand() *cli.Command {
  var h DbHandler
  return &cli.Command{
    Name:  "db",
    Usage: "accounts database maintenance",
    Flags: []cli.Flag{
      &cli.StringFlag{
        Name:    "db-path",
        Usage:   "accounts database path or postgres url",
        Value:   config.DEFAULT_DB_PATH,
        EnvVars: []string{"SCRAPER_DB_PATH"},
      },
    },
    Before: func(c *cli.Context) error {
      db, err := common.NewDB(c.String("db-path"))
      if err != nil {
        return cli.Exit(err.Error(), 1)
      }
      h = DbHandler{
        Db: db,
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
        Name:  "migrate",
        Usage: "create or update the accounts table",
        Action: func(c *cli.Context) error {
          if err := h.migrate(); err != nil {
            return cli.Exit(err.Error(), 1)
          }
          return nil
        },
      },
    },
  }
}

func (h *DbHandler) migrate() error {
  log.Info().Msg("process migrator")
  return models.AutoMigrate(h.Db)
}
