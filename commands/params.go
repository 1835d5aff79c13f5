package commands

import (
  "flag"
  "fmt"
  "io"
  "strings"

  "github.com/urfave/cli/v2"

  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/tweets"
)

func paramsFlags() []cli.Flag {
  return []cli.Flag{
    &cli.IntFlag{
      Name:    "limit",
      Aliases: []string{"l"},
      Usage:   "maximum number of tweets",
      Value:   config.DEFAULT_LIMIT,
    },
    &cli.StringFlag{
      Name:    "output",
      Aliases: []string{"o"},
      Usage:   "output file, defaults to <username>_tweets.json",
    },
    &cli.StringFlag{
      Name:    "db-path",
      Usage:   "accounts database path",
      Value:   config.DEFAULT_DB_PATH,
      EnvVars: []string{"SCRAPER_DB_PATH"},
    },
    &cli.BoolFlag{
      Name:  "include-retweets",
      Usage: "keep retweets",
    },
    &cli.BoolFlag{
      Name:  "exclude-pinned",
      Usage: "drop the pinned tweet",
    },
    &cli.BoolFlag{
      Name:  "only-media",
      Usage: "only tweets with media",
    },
    &cli.BoolFlag{
      Name:  "only-links",
      Usage: "only tweets with links",
    },
  }
}

// paramsFromContext reads the fetch flags of c. cli stops parsing flags at
// the handle, so flags following it are parsed here from the tail.
func paramsFromContext(c *cli.Context, input string) (*tweets.Params, error) {
  params := tweets.NewParams(input)
  params.Limit = c.Int("limit")
  params.Output = c.String("output")
  params.DbPath = c.String("db-path")
  params.IncludeRetweets = c.Bool("include-retweets")
  params.ExcludePinned = c.Bool("exclude-pinned")
  params.OnlyMedia = c.Bool("only-media")
  params.OnlyLinks = c.Bool("only-links")

  if c.Args().Len() < 2 {
    return params, nil
  }
  if err := parseTrailingFlags(c.Args().Tail(), params); err != nil {
    return nil, err
  }
  return params, nil
}

func parseTrailingFlags(args []string, params *tweets.Params) error {
  set := flag.NewFlagSet("params", flag.ContinueOnError)
  set.SetOutput(io.Discard)
  for _, f := range paramsFlags() {
    if err := f.Apply(set); err != nil {
      return err
    }
  }
  if err := set.Parse(args); err != nil {
    return err
  }
  if set.NArg() > 0 {
    return fmt.Errorf("unexpected arguments: %s", strings.Join(set.Args(), " "))
  }

  set.Visit(func(f *flag.Flag) {
    value := f.Value.(flag.Getter).Get()
    switch f.Name {
    case "limit", "l":
      params.Limit = value.(int)
    case "output", "o":
      params.Output = value.(string)
    case "db-path":
      params.DbPath = value.(string)
    case "include-retweets":
      params.IncludeRetweets = value.(bool)
    case "exclude-pinned":
      params.ExcludePinned = value.(bool)
    case "only-media":
      params.OnlyMedia = value.(bool)
    case "only-links":
      params.OnlyLinks = value.(bool)
    }
  })
  return nil
}
