package tweets

import (
  "context"
  "errors"

  "github.com/rs/zerolog/log"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/models"
  "scraper.local/tweets-fetcher/repositories/scrapers"
)

// Client is the account-pool backed source of users and tweets.
type Client interface {
  LoginAll(ctx context.Context) error
  UserByLogin(ctx context.Context, login string) (*models.User, error)
  UserTweets(ctx context.Context, userID int64, limit int, yield func(*models.Tweet) bool) error
  Close() error
}

// Opener binds a fresh Client to a credential store path.
type Opener func(dbPath string) (Client, error)

func OpenAPI(dbPath string) (Client, error) {
  api, err := scrapers.Open(dbPath)
  if err != nil {
    return nil, err
  }
  return api, nil
}

type Fetcher struct {
  Open Opener
}

func NewFetcher(open Opener) *Fetcher {
  if open == nil {
    open = OpenAPI
  }
  return &Fetcher{
    Open: open,
  }
}

// Fetch streams up to limit*FETCH_MULTIPLIER tweets of username and keeps
// the first limit accepted by all filters, mapped through transforms.
//
// nil filters default to ExcludeRetweets, an empty non-nil list filters
// nothing. An unknown user is an empty result, not an error. A failure
// while streaming returns the tweets collected so far with a *FetchError.
func (f *Fetcher) Fetch(
  ctx context.Context,
  username string,
  limit int,
  dbPath string,
  filters []Filter,
  transforms []Transform,
) (results []interface{}, err error) {
  results = []interface{}{}

  client, err := f.Open(dbPath)
  if err != nil {
    return results, wrapError(err)
  }
  defer client.Close()

  if err := client.LoginAll(ctx); err != nil {
    return results, wrapError(err)
  }

  user, err := client.UserByLogin(ctx, username)
  if errors.Is(err, common.ErrUserNotFound) || (err == nil && user == nil) {
    log.Info().Str("username", username).Msg("user not found")
    return results, nil
  }
  if err != nil {
    log.Error().Err(err).Str("username", username).Msg("error resolving user")
    return results, wrapError(err)
  }

  var filter Filter = ExcludeRetweets
  if filters != nil {
    filter = CombineFilters(filters...)
  }
  var transform Transform = Identity
  if len(transforms) > 0 {
    transform = CombineTransforms(transforms...)
  }

  err = client.UserTweets(ctx, user.ID, limit*config.FETCH_MULTIPLIER, func(tweet *models.Tweet) bool {
    if filter(tweet) {
      results = append(results, transform(tweet))
    }
    return len(results) < limit
  })
  if err != nil {
    log.Error().Err(err).Str("username", username).Int("collected", len(results)).Msg("error fetching tweets")
    return results, wrapError(err)
  }
  return results, nil
}

// FetchTweets runs Fetch for params without transforms.
func (f *Fetcher) FetchTweets(ctx context.Context, username string, params *Params) ([]*models.Tweet, error) {
  results, err := f.Fetch(ctx, username, params.Limit, params.DbPath, params.Filters(), nil)
  tweets := make([]*models.Tweet, 0, len(results))
  for _, result := range results {
    tweets = append(tweets, result.(*models.Tweet))
  }
  return tweets, err
}
