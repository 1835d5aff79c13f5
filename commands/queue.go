package commands

import (
  "github.com/urfave/cli/v2"

  "scraper.local/tweets-fetcher/commands/queue"
)

func NewQueueCommand() *cli.Command {
  return &cli.Command{
    Name:  "queue",
    Usage: "export workers",
    Subcommands: []*cli.Command{
      queue.NewAsynqCommand(),
      queue.NewNatsCommand(),
    },
  }
}
