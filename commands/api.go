package commands

import (
  "context"
  "errors"
  "fmt"
  "net"
  "net/http"
  "os/signal"
  "strconv"
  "time"

  "github.com/go-redis/redis/v8"
  "github.com/rs/zerolog/log"
  "github.com/urfave/cli/v2"
  "golang.org/x/sys/unix"

  "scraper.local/tweets-fetcher/api"
  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/tweets"
)

type ApiHandler struct {
  Rdb      *redis.Client
  Ctx      context.Context
  CacheTTL time.Duration
  Fetcher  *tweets.Fetcher
}

func NewApiCommand() *cli.Command {
  var h ApiHandler
  return &cli.Command{
    Name:      "api",
    Usage:     "serve the tweets http api",
    ArgsUsage: "[host] [port]",
    Flags: []cli.Flag{
      &cli.StringFlag{
        Name:    "host",
        Value:   config.DEFAULT_API_HOST,
        EnvVars: []string{"SCRAPER_API_HOST"},
      },
      &cli.IntFlag{
        Name:    "port",
        Value:   config.DEFAULT_API_PORT,
        EnvVars: []string{"SCRAPER_API_PORT"},
      },
    },
    Before: func(c *cli.Context) error {
      h = ApiHandler{
        Rdb:      common.NewRedis(),
        Ctx:      context.Background(),
        CacheTTL: time.Duration(common.GetEnvInt("SCRAPER_CACHE_TTL")) * time.Second,
        Fetcher:  tweets.NewFetcher(nil),
      }
      return nil
    },
    Action: func(c *cli.Context) error {
      host := c.String("host")
      port := c.Int("port")
      if c.Args().Len() > 0 {
        host = c.Args().Get(0)
      }
      if c.Args().Len() > 1 {
        value, err := strconv.Atoi(c.Args().Get(1))
        if err != nil {
          return cli.Exit(fmt.Sprintf("invalid port %q", c.Args().Get(1)), 1)
        }
        port = value
      }
      if err := h.Run(net.JoinHostPort(host, strconv.Itoa(port))); err != nil {
        return cli.Exit(err.Error(), 1)
      }
      return nil
    },
  }
}

func (h *ApiHandler) Run(addr string) error {
  apiContext := &common.ApiContext{
    Rdb:      h.Rdb,
    Ctx:      h.Ctx,
    CacheTTL: h.CacheTTL,
  }

  server := &http.Server{
    Addr:              addr,
    Handler:           api.NewRouter(apiContext, h.Fetcher),
    ReadHeaderTimeout: 10 * time.Second,
  }

  ctx, stop := signal.NotifyContext(h.Ctx, unix.SIGINT, unix.SIGTERM)
  defer stop()

  errs := make(chan error, 1)
  go func() {
    log.Info().Str("addr", addr).Bool("cache", h.Rdb != nil && h.CacheTTL > 0).Msg("api running...")
    errs <- server.ListenAndServe()
  }()

  select {
  case err := <-errs:
    if errors.Is(err, http.ErrServerClosed) {
      return nil
    }
    return err
  case <-ctx.Done():
  }

  log.Info().Msg("api shutting down...")
  shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
  defer cancel()
  if err := server.Shutdown(shutdownCtx); err != nil {
    return err
  }
  if h.Rdb != nil {
    h.Rdb.Close()
  }
  return nil
}
