package scrapers

import (
  "context"
  "errors"
  "fmt"
  "net/http"
  "net/http/httptest"
  "path/filepath"
  "strings"
  "sync"
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "github.com/tidwall/gjson"
  "gorm.io/gorm"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/models"
  "scraper.local/tweets-fetcher/repositories"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc, usernames ...string) *API {
  server := httptest.NewServer(handler)
  t.Cleanup(server.Close)

  db, err := common.NewDB(filepath.Join(t.TempDir(), "accounts.db"))
  require.NoError(t, err)
  accounts := &repositories.AccountsRepository{
    Db: db,
  }
  require.NoError(t, accounts.Migrate())
  for _, username := range usernames {
    _, err := accounts.Add(username, fmt.Sprintf("auth_token=x; ct0=csrf-%s", username), "test-agent", "")
    require.NoError(t, err)
  }

  api := NewAPI(db, accounts)
  api.UsersRepository.GraphQL.BaseUrl = server.URL + "/graphql/%s/%s"
  t.Cleanup(func() {
    api.Close()
  })
  return api
}

func userResponse() string {
  return fmt.Sprintf(`{"data": {"user": {"result": %s}}}`, userFixture)
}

func TestAPI_UserByLogin(t *testing.T) {
  api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
    assert.Equal(t, fmt.Sprintf("/graphql/%s/UserByScreenName", config.QUERY_ID_USER_BY_SCREEN_NAME), r.URL.Path)
    assert.Equal(t, "Bearer "+config.TWITTER_BEARER, r.Header.Get("Authorization"))
    assert.Equal(t, "csrf-alice", r.Header.Get("X-Csrf-Token"))
    assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
    assert.Equal(t, "sampleuser", gjson.Get(r.URL.Query().Get("variables"), "screen_name").Str)
    fmt.Fprint(w, userResponse())
  }, "alice")

  user, err := api.UserByLogin(context.Background(), "sampleuser")
  require.NoError(t, err)
  assert.Equal(t, int64(42), user.ID)
  assert.Equal(t, "sampleuser", user.Username)
}

func TestAPI_UserByLogin_NotFound(t *testing.T) {
  for _, body := range []string{
    `{"data": {"user": {}}}`,
    `{"data": {"user": {"result": {"__typename": "UserUnavailable", "reason": "Suspended"}}}}`,
  } {
    api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
      fmt.Fprint(w, body)
    }, "alice")
    _, err := api.UserByLogin(context.Background(), "ghost")
    assert.ErrorIs(t, err, common.ErrUserNotFound)
  }
}

func TestAPI_NoAccounts(t *testing.T) {
  api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
    t.Error("no request expected without accounts")
  })
  _, err := api.UserByLogin(context.Background(), "sampleuser")
  assert.ErrorIs(t, err, common.ErrNoAccounts)
}

func TestAPI_RateLimitedAccountIsRotated(t *testing.T) {
  var mu sync.Mutex
  var csrf []string
  api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
    mu.Lock()
    defer mu.Unlock()
    csrf = append(csrf, r.Header.Get("X-Csrf-Token"))
    if len(csrf) == 1 {
      w.WriteHeader(http.StatusTooManyRequests)
      return
    }
    fmt.Fprint(w, userResponse())
  }, "alice", "bob")

  user, err := api.UserByLogin(context.Background(), "sampleuser")
  require.NoError(t, err)
  assert.Equal(t, int64(42), user.ID)
  require.Len(t, csrf, 2)
  assert.NotEqual(t, csrf[0], csrf[1])

  blocked, err := api.AccountsRepository.Get(strings.TrimPrefix(csrf[0], "csrf-"))
  require.NoError(t, err)
  assert.Greater(t, blocked.UnblockedAt, time.Now().UnixMicro())
}

func TestAPI_RateLimitedBody(t *testing.T) {
  api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
    fmt.Fprint(w, `{"errors": [{"code": 88, "message": "Rate limit exceeded"}]}`)
  }, "alice")
  _, err := api.UserByLogin(context.Background(), "sampleuser")
  assert.ErrorIs(t, err, common.ErrRateLimited)
}

func TestAPI_UnauthorizedAccountsAreDisabled(t *testing.T) {
  api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusUnauthorized)
  }, "alice", "bob")

  _, err := api.UserByLogin(context.Background(), "sampleuser")
  assert.ErrorIs(t, err, common.ErrUnauthorized)

  accounts, err := api.AccountsRepository.All()
  require.NoError(t, err)
  for _, account := range accounts {
    assert.Equal(t, config.ACCOUNT_STATUS_DISABLED, account.Status)
  }
}

func TestAPI_DisableFailureStopsRotation(t *testing.T) {
  requests := 0
  api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
    requests++
    w.WriteHeader(http.StatusUnauthorized)
  }, "alice")
  failStatus := errors.New("status update failed")
  api.AccountsRepository.Db.Callback().Update().Before("gorm:update").Register("test:fail_status", func(tx *gorm.DB) {
    if values, ok := tx.Statement.Dest.(map[string]interface{}); ok {
      if _, ok := values["status"]; ok {
        tx.AddError(failStatus)
      }
    }
  })

  _, err := api.UserByLogin(context.Background(), "sampleuser")
  assert.ErrorIs(t, err, failStatus)
  assert.Equal(t, 1, requests)
}

func TestAPI_UpstreamError(t *testing.T) {
  api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusInternalServerError)
  }, "alice")
  _, err := api.UserByLogin(context.Background(), "sampleuser")
  assert.ErrorIs(t, err, common.ErrUpstream)
}

func pagedHandler(t *testing.T, requests *int) http.HandlerFunc {
  pages := map[string]string{
    "":   string(timelineFixture(addEntries(itemEntry(1, tweetFixture(1, "", "")), itemEntry(2, tweetFixture(2, "", "")), cursorEntry("Bottom", "c1")))),
    "c1": string(timelineFixture(addEntries(itemEntry(2, tweetFixture(2, "", "")), itemEntry(3, tweetFixture(3, "", "")), cursorEntry("Bottom", "c2")))),
    "c2": string(timelineFixture(addEntries(cursorEntry("Top", "c0"), cursorEntry("Bottom", "c3")))),
  }
  return func(w http.ResponseWriter, r *http.Request) {
    *requests++
    assert.True(t, strings.HasSuffix(r.URL.Path, "/UserTweets"))
    variables := r.URL.Query().Get("variables")
    assert.Equal(t, "42", gjson.Get(variables, "userId").Str)
    page, ok := pages[gjson.Get(variables, "cursor").Str]
    if !ok {
      w.WriteHeader(http.StatusBadRequest)
      return
    }
    fmt.Fprint(w, page)
  }
}

func TestAPI_UserTweets(t *testing.T) {
  t.Run("exhausts the timeline", func(t *testing.T) {
    requests := 0
    api := newTestAPI(t, pagedHandler(t, &requests), "alice")
    var ids []int64
    err := api.UserTweets(context.Background(), 42, 0, func(tweet *models.Tweet) bool {
      ids = append(ids, tweet.ID)
      return true
    })
    require.NoError(t, err)
    assert.Equal(t, []int64{1, 2, 3}, ids)
    assert.Equal(t, 3, requests)
  })

  t.Run("stops at limit", func(t *testing.T) {
    requests := 0
    api := newTestAPI(t, pagedHandler(t, &requests), "alice")
    var ids []int64
    err := api.UserTweets(context.Background(), 42, 2, func(tweet *models.Tweet) bool {
      ids = append(ids, tweet.ID)
      return true
    })
    require.NoError(t, err)
    assert.Equal(t, []int64{1, 2}, ids)
    assert.Equal(t, 1, requests)
  })

  t.Run("stops when yield declines", func(t *testing.T) {
    requests := 0
    api := newTestAPI(t, pagedHandler(t, &requests), "alice")
    count := 0
    err := api.UserTweets(context.Background(), 42, 0, func(tweet *models.Tweet) bool {
      count++
      return false
    })
    require.NoError(t, err)
    assert.Equal(t, 1, count)
  })

  t.Run("page error", func(t *testing.T) {
    api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
      w.WriteHeader(http.StatusBadGateway)
    }, "alice")
    err := api.UserTweets(context.Background(), 42, 0, func(tweet *models.Tweet) bool {
      return true
    })
    assert.ErrorIs(t, err, common.ErrUpstream)
  })
}

func TestCsrfToken(t *testing.T) {
  assert.Equal(t, "abc", CsrfToken("auth_token=x; ct0=abc; lang=en"))
  assert.Equal(t, "", CsrfToken("auth_token=x"))
}
