package tweets

import (
  "testing"

  "github.com/stretchr/testify/assert"

  "scraper.local/tweets-fetcher/models"
)

func TestExcludeRetweets(t *testing.T) {
  assert.True(t, ExcludeRetweets(&models.Tweet{ID: 1}))
  assert.False(t, ExcludeRetweets(&models.Tweet{ID: 1, RetweetedTweet: &models.Tweet{ID: 2}}))
}

func TestExcludePinned(t *testing.T) {
  user := &models.User{ID: 7, PinnedIds: []int64{10}}
  assert.False(t, ExcludePinned(&models.Tweet{ID: 10, User: user}))
  assert.True(t, ExcludePinned(&models.Tweet{ID: 11, User: user}))
  assert.True(t, ExcludePinned(&models.Tweet{ID: 10}))
  assert.True(t, ExcludePinned(&models.Tweet{ID: 10, User: &models.User{ID: 7}}))
}

func TestOnlyWithMedia(t *testing.T) {
  assert.False(t, OnlyWithMedia(&models.Tweet{}))
  assert.False(t, OnlyWithMedia(&models.Tweet{Media: &models.Media{}}))
  assert.False(t, OnlyWithMedia(&models.Tweet{Media: &models.Media{
    Photos:   []*models.MediaPhoto{},
    Videos:   []*models.MediaVideo{},
    Animated: []*models.MediaAnimated{},
  }}))
  assert.True(t, OnlyWithMedia(&models.Tweet{Media: &models.Media{
    Photos: []*models.MediaPhoto{{Url: "https://pbs.twimg.com/media/a.jpg"}},
  }}))
  assert.True(t, OnlyWithMedia(&models.Tweet{Media: &models.Media{
    Videos: []*models.MediaVideo{{ThumbnailUrl: "thumb"}},
  }}))
  assert.True(t, OnlyWithMedia(&models.Tweet{Media: &models.Media{
    Animated: []*models.MediaAnimated{{VideoUrl: "gif"}},
  }}))
}

func TestOnlyWithLinks(t *testing.T) {
  assert.False(t, OnlyWithLinks(&models.Tweet{}))
  assert.False(t, OnlyWithLinks(&models.Tweet{Links: []*models.Link{}}))
  assert.True(t, OnlyWithLinks(&models.Tweet{Links: []*models.Link{{Url: "https://go.dev"}}}))
}

func TestCombineFilters(t *testing.T) {
  yes := func(*models.Tweet) bool { return true }
  no := func(*models.Tweet) bool { return false }
  tweet := &models.Tweet{ID: 1}

  assert.True(t, CombineFilters()(tweet))
  assert.True(t, CombineFilters(yes, yes)(tweet))
  assert.False(t, CombineFilters(yes, no)(tweet))
  assert.False(t, CombineFilters(no, yes)(tweet))

  t.Run("stops at first rejection", func(t *testing.T) {
    called := false
    spy := func(*models.Tweet) bool {
      called = true
      return true
    }
    assert.False(t, CombineFilters(no, spy)(tweet))
    assert.False(t, called)
  })
}

func TestCombineTransforms(t *testing.T) {
  id := func(in interface{}) interface{} {
    return in.(*models.Tweet).ID
  }
  double := func(in interface{}) interface{} {
    return in.(int64) * 2
  }
  assert.Equal(t, int64(42), CombineTransforms(id, double)(&models.Tweet{ID: 21}))

  tweet := &models.Tweet{ID: 1}
  assert.Same(t, tweet, CombineTransforms()(tweet))
  assert.Same(t, tweet, Identity(tweet))
}
