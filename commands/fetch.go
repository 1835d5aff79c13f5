package commands

import (
  "context"
  "errors"
  "fmt"
  "io"

  "github.com/rs/zerolog/log"
  "github.com/urfave/cli/v2"

  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/tweets"
)

type FetchHandler struct {
  Fetcher *tweets.Fetcher
  Ctx     context.Context
  Writer  io.Writer
}

func NewFetchCommand() *cli.Command {
  return newFetchCommand(tweets.NewFetcher(nil))
}

func newFetchCommand(fetcher *tweets.Fetcher) *cli.Command {
  var h FetchHandler
  return &cli.Command{
    Name:      "fetch",
    Aliases:   []string{"cli"},
    Usage:     "fetch tweets of a user and save them as json",
    ArgsUsage: "<username_or_url>",
    Flags:     paramsFlags(),
    Before: func(c *cli.Context) error {
      h = FetchHandler{
        Fetcher: fetcher,
        Ctx:     c.Context,
        Writer:  c.App.Writer,
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

// Process fetches, prints and saves tweets for params. A fetch that failed
// before producing anything is returned, partial results are kept.
func (h *FetchHandler) Process(params *tweets.Params) error {
  username, err := tweets.ResolveUsername(params.UsernameOrUrl)
  if errors.Is(err, tweets.ErrUnresolvableURL) {
    fmt.Fprintf(h.Writer, "Could not extract username from URL: %s\n", params.UsernameOrUrl)
    return nil
  }

  fmt.Fprintf(h.Writer, "Fetching up to %d tweets for user: %s (%s)\n", params.Limit, username, params.Describe())

  items, err := h.Fetcher.FetchTweets(h.context(), username, params)
  if err != nil {
    if len(items) == 0 {
      return err
    }
    log.Warn().Err(err).Str("kind", string(tweets.Classify(err))).Int("count", len(items)).Msg("partial results")
  }

  if len(items) == 0 {
    fmt.Fprintf(h.Writer, "No tweets found for user: %s\n", username)
    return nil
  }

  fmt.Fprintf(h.Writer, "\nFound %d tweets:\n", len(items))
  for i, tweet := range items {
    fmt.Fprintf(h.Writer, "\n--- Tweet %d ---\n", i+1)
    fmt.Fprintf(h.Writer, "Date: %s\n", tweet.Date.Format(tweets.DateDisplayLayout))
    fmt.Fprintf(h.Writer, "Text: %s\n", tweet.RawContent)
    fmt.Fprintf(h.Writer, "Likes: %d\n", tweet.LikeCount)
    fmt.Fprintf(h.Writer, "URL: %s\n", fmt.Sprintf(config.STATUS_URL, username, tweet.ID))
    if len(tweet.Links) > 0 {
      fmt.Fprintln(h.Writer, "Links:")
      for _, link := range tweet.Links {
        fmt.Fprintf(h.Writer, "  - %s\n", link.Url)
      }
    }
  }

  path, err := tweets.SaveJSON(items, username, params.Output)
  if err != nil {
    return err
  }
  fmt.Fprintf(h.Writer, "\nTweets saved to %s\n", path)
  return nil
}

func (h *FetchHandler) context() context.Context {
  if h.Ctx == nil {
    return context.Background()
  }
  return h.Ctx
}
