package tweets

import "scraper.local/tweets-fetcher/models"

// Filter reports whether a tweet is kept.
type Filter func(tweet *models.Tweet) bool

// Transform maps a tweet (or the output of a previous Transform) to a value.
type Transform func(in interface{}) interface{}

// ExcludeRetweets drops tweets that reshare another tweet.
func ExcludeRetweets(tweet *models.Tweet) bool {
  return tweet.RetweetedTweet == nil
}

// ExcludePinned drops tweets listed in their author's pinned ids. Tweets
// without an author or pinned list are kept.
func ExcludePinned(tweet *models.Tweet) bool {
  return !tweet.User.IsPinned(tweet.ID)
}

// OnlyWithMedia keeps tweets carrying at least one media attachment.
func OnlyWithMedia(tweet *models.Tweet) bool {
  return !tweet.Media.IsEmpty()
}

// OnlyWithLinks keeps tweets with a non-empty link list.
func OnlyWithLinks(tweet *models.Tweet) bool {
  return len(tweet.Links) > 0
}

// CombineFilters ANDs filters in order, stopping at the first rejection.
// No filters keeps everything.
func CombineFilters(filters ...Filter) Filter {
  return func(tweet *models.Tweet) bool {
    for _, f := range filters {
      if !f(tweet) {
        return false
      }
    }
    return true
  }
}

// CombineTransforms feeds each transform the output of the previous one.
func CombineTransforms(transforms ...Transform) Transform {
  return func(in interface{}) interface{} {
    out := in
    for _, t := range transforms {
      out = t(out)
    }
    return out
  }
}

// Identity returns its input unchanged.
func Identity(in interface{}) interface{} {
  return in
}
