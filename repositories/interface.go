package repositories

import "scraper.local/tweets-fetcher/config"

type AccountData struct {
  AccessToken  string `json:"access_token"`
  SectionUsers string `json:"section_users"`
  SectionPosts string `json:"section_posts"`
}

func (d *AccountData) WithDefaults() *AccountData {
  out := &AccountData{}
  if d != nil {
    *out = *d
  }
  if out.AccessToken == "" {
    out.AccessToken = config.TWITTER_BEARER
  }
  if out.SectionUsers == "" {
    out.SectionUsers = config.QUERY_ID_USER_BY_SCREEN_NAME
  }
  if out.SectionPosts == "" {
    out.SectionPosts = config.QUERY_ID_USER_TWEETS
  }
  return out
}
