package scrapers

import (
  "context"

  "github.com/rs/zerolog/log"
  "gorm.io/gorm"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/models"
  "scraper.local/tweets-fetcher/repositories"
)

// API is the account-pool backed Twitter client bound to one accounts db.
type API struct {
  Db                 *gorm.DB
  AccountsRepository *repositories.AccountsRepository
  UsersRepository    *UsersRepository
  PostsRepository    *PostsRepository
}

func Open(dbPath string) (*API, error) {
  db, err := common.NewDB(dbPath)
  if err != nil {
    return nil, err
  }
  accounts := &repositories.AccountsRepository{
    Db:     db,
    Secret: common.GetEnvString("SCRAPER_ACCOUNTS_SECRET"),
  }
  if err := accounts.Migrate(); err != nil {
    common.CloseDB(db)
    return nil, err
  }
  return NewAPI(db, accounts), nil
}

func NewAPI(db *gorm.DB, accounts *repositories.AccountsRepository) *API {
  graphql := &GraphQL{
    AccountsRepository: accounts,
  }
  return &API{
    Db:                 db,
    AccountsRepository: accounts,
    UsersRepository: &UsersRepository{
      GraphQL: graphql,
    },
    PostsRepository: &PostsRepository{
      GraphQL: graphql,
    },
  }
}

func (a *API) LoginAll(ctx context.Context) error {
  active, err := a.AccountsRepository.LoginAll(ctx)
  if err != nil {
    return err
  }
  if active == 0 {
    log.Warn().Msg("no active accounts, add one with `accounts add`")
  }
  return nil
}

func (a *API) UserByLogin(ctx context.Context, login string) (*models.User, error) {
  return a.UsersRepository.Process(ctx, login)
}

// UserTweets pages through the user timeline handing each tweet to yield
// until yield returns false, limit tweets were yielded (limit <= 0 means no
// limit) or the timeline is exhausted.
func (a *API) UserTweets(ctx context.Context, userID int64, limit int, yield func(*models.Tweet) bool) error {
  seen := make(map[int64]bool)
  cursor := ""
  count := 0
  for {
    tweets, next, err := a.PostsRepository.Process(ctx, userID, cursor)
    if err != nil {
      return err
    }
    fresh := 0
    for _, tweet := range tweets {
      if seen[tweet.ID] {
        continue
      }
      seen[tweet.ID] = true
      fresh++
      if !yield(tweet) {
        return nil
      }
      count++
      if limit > 0 && count >= limit {
        return nil
      }
    }
    log.Debug().Int64("user_id", userID).Int("count", count).Str("cursor", next).Msg("user tweets page")
    if next == "" || next == cursor || fresh == 0 {
      return nil
    }
    cursor = next
  }
}

func (a *API) Close() error {
  return common.CloseDB(a.Db)
}
