package commands

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "os"
  "path/filepath"
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "github.com/urfave/cli/v2"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/models"
  "scraper.local/tweets-fetcher/tweets"
)

type fakeClient struct {
  tweets    []*models.Tweet
  userErr   error
  streamErr error
}

func (c *fakeClient) LoginAll(ctx context.Context) error {
  return nil
}

func (c *fakeClient) UserByLogin(ctx context.Context, login string) (*models.User, error) {
  if c.userErr != nil {
    return nil, c.userErr
  }
  return &models.User{ID: 1, Username: login}, nil
}

func (c *fakeClient) UserTweets(ctx context.Context, userID int64, limit int, yield func(*models.Tweet) bool) error {
  for i, tweet := range c.tweets {
    if i >= limit || !yield(tweet) {
      return nil
    }
  }
  return c.streamErr
}

func (c *fakeClient) Close() error {
  return nil
}

func sampleTimeline() []*models.Tweet {
  var items []*models.Tweet
  for i := 1; i <= 6; i++ {
    tweet := &models.Tweet{
      ID:         int64(i),
      IDStr:      fmt.Sprint(i),
      Date:       time.Date(2024, 3, i, 12, 0, 0, 0, time.UTC),
      RawContent: fmt.Sprintf("tweet %d", i),
      LikeCount:  i * 10,
      Links:      []*models.Link{},
    }
    if i%2 == 1 {
      tweet.RetweetedTweet = &models.Tweet{ID: int64(100 + i)}
    }
    if i == 2 {
      tweet.Links = []*models.Link{{Url: "https://go.dev/"}}
    }
    items = append(items, tweet)
  }
  return items
}

func runFetch(t *testing.T, client *fakeClient, args ...string) (string, error) {
  fetcher := tweets.NewFetcher(func(dbPath string) (tweets.Client, error) {
    return client, nil
  })
  var out bytes.Buffer
  app := &cli.App{
    Name:           "tweets-fetcher",
    Writer:         &out,
    ExitErrHandler: func(c *cli.Context, err error) {},
    Commands:       []*cli.Command{newFetchCommand(fetcher)},
  }
  err := app.Run(append([]string{"tweets-fetcher"}, args...))
  return out.String(), err
}

func chdir(t *testing.T) string {
  dir := t.TempDir()
  wd, err := os.Getwd()
  require.NoError(t, err)
  require.NoError(t, os.Chdir(dir))
  t.Cleanup(func() {
    os.Chdir(wd)
  })
  return dir
}

func TestFetchCommand_SavesDefaultFile(t *testing.T) {
  dir := chdir(t)

  out, err := runFetch(t, &fakeClient{tweets: sampleTimeline()}, "fetch", "--limit", "2", "sampleuser")
  require.NoError(t, err)

  assert.Contains(t, out, "Fetching up to 2 tweets for user: sampleuser (excluding retweets)")
  assert.Contains(t, out, "Found 2 tweets:")
  assert.Contains(t, out, "--- Tweet 1 ---")
  assert.Contains(t, out, "Date: 2024-03-02 12:00:00+00:00")
  assert.Contains(t, out, "Text: tweet 2")
  assert.Contains(t, out, "Likes: 20")
  assert.Contains(t, out, "URL: https://twitter.com/sampleuser/status/2")
  assert.Contains(t, out, "  - https://go.dev/")
  assert.Contains(t, out, "Tweets saved to sampleuser_tweets.json")

  buf, err := os.ReadFile(filepath.Join(dir, "sampleuser_tweets.json"))
  require.NoError(t, err)
  var saved []map[string]interface{}
  require.NoError(t, json.Unmarshal(buf, &saved))
  require.Len(t, saved, 2)
  for _, tweet := range saved {
    assert.Nil(t, tweet["retweetedTweet"])
  }
}

func TestFetchCommand_AliasAndFlags(t *testing.T) {
  output := filepath.Join(t.TempDir(), "custom.json")

  out, err := runFetch(t, &fakeClient{tweets: sampleTimeline()},
    "cli", "-l", "3", "-o", output, "--include-retweets", "--only-links", "https://x.com/sampleuser")
  require.NoError(t, err)
  assert.Contains(t, out, "(only with links)")
  assert.Contains(t, out, "Found 1 tweets:")
  assert.Contains(t, out, "Tweets saved to "+output)

  _, err = os.Stat(output)
  assert.NoError(t, err)
}

func TestFetchCommand_FlagsAfterHandle(t *testing.T) {
  output := filepath.Join(t.TempDir(), "after.json")

  out, err := runFetch(t, &fakeClient{tweets: sampleTimeline()},
    "fetch", "sampleuser", "-l", "1", "--include-retweets", "--output="+output)
  require.NoError(t, err)
  assert.Contains(t, out, "Fetching up to 1 tweets for user: sampleuser (no filters)")
  assert.Contains(t, out, "Found 1 tweets:")
  assert.Contains(t, out, "Text: tweet 1")
  assert.Contains(t, out, "Tweets saved to "+output)
}

func TestFetchCommand_FlagsAroundHandle(t *testing.T) {
  chdir(t)

  out, err := runFetch(t, &fakeClient{tweets: sampleTimeline()},
    "fetch", "--only-links", "sampleuser", "--limit", "2")
  require.NoError(t, err)
  assert.Contains(t, out, "Fetching up to 2 tweets for user: sampleuser (excluding retweets, only with links)")
}

func TestFetchCommand_UnexpectedArguments(t *testing.T) {
  for _, args := range [][]string{
    {"fetch", "sampleuser", "otheruser"},
    {"fetch", "sampleuser", "-l", "1", "otheruser"},
    {"fetch", "sampleuser", "--unknown"},
  } {
    out, err := runFetch(t, &fakeClient{tweets: sampleTimeline()}, args...)
    require.Error(t, err, args)
    assert.NotContains(t, out, "Fetching", args)
  }

  _, err := runFetch(t, &fakeClient{}, "fetch", "sampleuser", "otheruser")
  assert.Contains(t, err.Error(), "unexpected arguments: otheruser")
}

func TestFetchCommand_NoTweets(t *testing.T) {
  dir := chdir(t)

  out, err := runFetch(t, &fakeClient{userErr: common.ErrUserNotFound}, "fetch", "ghost")
  require.NoError(t, err)
  assert.Contains(t, out, "No tweets found for user: ghost")

  _, err = os.Stat(filepath.Join(dir, "ghost_tweets.json"))
  assert.True(t, os.IsNotExist(err))
}

func TestFetchCommand_UnresolvableURL(t *testing.T) {
  out, err := runFetch(t, &fakeClient{}, "fetch", "http://not-a-url-no-host")
  require.NoError(t, err)
  assert.Contains(t, out, "Could not extract username from URL: http://not-a-url-no-host")
  assert.NotContains(t, out, "Fetching")
}

func TestFetchCommand_Failure(t *testing.T) {
  chdir(t)
  _, err := runFetch(t, &fakeClient{userErr: common.ErrNoAccounts}, "fetch", "sampleuser")
  require.Error(t, err)
  assert.Contains(t, err.Error(), common.ErrNoAccounts.Error())
}

func TestFetchCommand_PartialResultsAreSaved(t *testing.T) {
  dir := chdir(t)
  client := &fakeClient{
    tweets:    sampleTimeline()[:2],
    streamErr: common.ErrRateLimited,
  }
  out, err := runFetch(t, client, "fetch", "sampleuser")
  require.NoError(t, err)
  assert.Contains(t, out, "Found 1 tweets:")

  _, err = os.Stat(filepath.Join(dir, "sampleuser_tweets.json"))
  assert.NoError(t, err)
}
