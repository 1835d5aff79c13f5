package main

import (
  "os"

  "github.com/rs/zerolog/log"
  "github.com/urfave/cli/v2"

  "scraper.local/tweets-fetcher/commands"
  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
)

func main() {
  common.LoadEnv()
  common.SetupLogger(common.GetEnvString("LOG_LEVEL"), common.GetEnvString("LOG_FORMAT"))

  app := &cli.App{
    Name:  "tweets-fetcher",
    Usage: config.APP_DESCRIPTION,
    Action: func(c *cli.Context) error {
      return cli.ShowAppHelp(c)
    },
    Commands: []*cli.Command{
      commands.NewFetchCommand(),
      commands.NewApiCommand(),
      commands.NewAccountsCommand(),
      commands.NewDbCommand(),
      commands.NewEnqueueCommand(),
      commands.NewQueueCommand(),
      commands.NewCronCommand(),
    },
    Version: config.APP_VERSION,
  }

  if err := app.Run(os.Args); err != nil {
    log.Fatal().Err(err).Msg("error")
  }
}
