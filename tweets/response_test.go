package tweets

import (
  "encoding/json"
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "scraper.local/tweets-fetcher/models"
)

func sampleTweet() *models.Tweet {
  return &models.Tweet{
    ID:           1700000000000000001,
    IDStr:        "1700000000000000001",
    Url:          "https://x.com/sampleuser/status/1700000000000000001",
    Date:         time.Date(2023, 9, 8, 7, 6, 5, 0, time.UTC),
    RawContent:   "hello <world> & go",
    LikeCount:    12,
    RetweetCount: 3,
    ReplyCount:   1,
    User: &models.User{
      ID:          42,
      Username:    "sampleuser",
      Displayname: "Sample User",
    },
    Links: []*models.Link{
      {Url: "https://go.dev/", Text: "go.dev", Tcourl: "https://t.co/abc"},
    },
  }
}

func TestToResponse(t *testing.T) {
  response := ToResponse(sampleTweet())
  assert.Equal(t, int64(1700000000000000001), response.ID)
  assert.Equal(t, "2023-09-08 07:06:05+00:00", response.Date)
  assert.Equal(t, "sampleuser", response.Username)
  assert.Equal(t, "Sample User", response.Displayname)
  require.Len(t, response.Links, 1)
  assert.Equal(t, "https://t.co/abc", response.Links[0].Tcourl)
}

func TestToResponse_Keys(t *testing.T) {
  buf, err := json.Marshal(ToResponse(sampleTweet()))
  require.NoError(t, err)

  var out map[string]interface{}
  require.NoError(t, json.Unmarshal(buf, &out))

  var keys []string
  for key := range out {
    keys = append(keys, key)
  }
  assert.ElementsMatch(t, []string{
    "id", "id_str", "url", "date", "username", "displayname",
    "rawContent", "likeCount", "retweetCount", "replyCount", "links",
  }, keys)

  links := out["links"].([]interface{})
  link := links[0].(map[string]interface{})
  assert.Len(t, link, 3)
  assert.Equal(t, "https://go.dev/", link["url"])
  assert.Equal(t, "go.dev", link["text"])
}

func TestToResponse_NoLinksNoUser(t *testing.T) {
  tweet := sampleTweet()
  tweet.Links = nil
  tweet.User = nil

  buf, err := json.Marshal(ToResponse(tweet))
  require.NoError(t, err)
  assert.Contains(t, string(buf), `"links":[]`)
  assert.Contains(t, string(buf), `"username":""`)
}

func TestToTweetsResponse(t *testing.T) {
  response := ToTweetsResponse([]*models.Tweet{sampleTweet(), sampleTweet()})
  assert.Equal(t, 2, response.Count)
  assert.Len(t, response.Tweets, 2)

  empty := ToTweetsResponse(nil)
  buf, err := json.Marshal(empty)
  require.NoError(t, err)
  assert.JSONEq(t, `{"tweets":[],"count":0}`, string(buf))
}
