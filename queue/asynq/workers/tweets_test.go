package workers

import (
  "context"
  "encoding/json"
  "errors"
  "os"
  "path/filepath"
  "testing"

  "github.com/hibiken/asynq"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/models"
  "scraper.local/tweets-fetcher/queue/asynq/jobs"
  "scraper.local/tweets-fetcher/tweets"
)

type stubClient struct {
  tweets  []*models.Tweet
  userErr error
}

func (c *stubClient) LoginAll(ctx context.Context) error {
  return nil
}

func (c *stubClient) UserByLogin(ctx context.Context, login string) (*models.User, error) {
  if c.userErr != nil {
    return nil, c.userErr
  }
  return &models.User{ID: 1, Username: login}, nil
}

func (c *stubClient) UserTweets(ctx context.Context, userID int64, limit int, yield func(*models.Tweet) bool) error {
  for _, tweet := range c.tweets {
    if !yield(tweet) {
      return nil
    }
  }
  return nil
}

func (c *stubClient) Close() error {
  return nil
}

func newExportWorker(t *testing.T, client *stubClient) *Tweets {
  fetcher := tweets.NewFetcher(func(dbPath string) (tweets.Client, error) {
    return client, nil
  })
  worker := NewTweets(&common.AnsqServerContext{
    Ctx: context.Background(),
    Mux: asynq.NewServeMux(),
  }, fetcher)
  worker.ExportPath = filepath.Join(t.TempDir(), "exports")
  return worker
}

func exportTask(t *testing.T, input string) *asynq.Task {
  params := tweets.NewParams(input)
  params.Limit = 5
  task, err := (&jobs.Tweets{}).Export(params)
  require.NoError(t, err)
  assert.Equal(t, config.ASYNQ_JOBS_TWEETS_EXPORT, task.Type())
  return task
}

func TestTweets_Export(t *testing.T) {
  worker := newExportWorker(t, &stubClient{tweets: []*models.Tweet{
    {ID: 1, RawContent: "one"},
    {ID: 2, RawContent: "two", RetweetedTweet: &models.Tweet{ID: 9}},
    {ID: 3, RawContent: "three"},
  }})

  require.NoError(t, worker.Export(context.Background(), exportTask(t, "https://x.com/sampleuser")))

  buf, err := os.ReadFile(filepath.Join(worker.ExportPath, "sampleuser_tweets.json"))
  require.NoError(t, err)
  var saved []*models.Tweet
  require.NoError(t, json.Unmarshal(buf, &saved))
  require.Len(t, saved, 2)
  assert.Equal(t, int64(3), saved[1].ID)
}

func TestTweets_ExportInvalidInput(t *testing.T) {
  worker := newExportWorker(t, &stubClient{})

  err := worker.Export(context.Background(), asynq.NewTask(config.ASYNQ_JOBS_TWEETS_EXPORT, []byte("{")))
  assert.True(t, errors.Is(err, asynq.SkipRetry))

  err = worker.Export(context.Background(), exportTask(t, "http://not-a-url-no-host"))
  assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestTweets_ExportFailures(t *testing.T) {
  t.Run("transient is retried", func(t *testing.T) {
    worker := newExportWorker(t, &stubClient{userErr: common.ErrRateLimited})
    err := worker.Export(context.Background(), exportTask(t, "sampleuser"))
    require.Error(t, err)
    assert.False(t, errors.Is(err, asynq.SkipRetry))
  })

  t.Run("auth is terminal", func(t *testing.T) {
    worker := newExportWorker(t, &stubClient{userErr: common.ErrNoAccounts})
    err := worker.Export(context.Background(), exportTask(t, "sampleuser"))
    require.Error(t, err)
    assert.True(t, errors.Is(err, asynq.SkipRetry))
  })
}

func TestTweets_Register(t *testing.T) {
  worker := newExportWorker(t, &stubClient{})
  require.NoError(t, worker.Register())
  _, pattern := worker.AnsqContext.Mux.Handler(asynq.NewTask(config.ASYNQ_JOBS_TWEETS_EXPORT, nil))
  assert.Equal(t, config.ASYNQ_JOBS_TWEETS_EXPORT, pattern)
}
