package scrapers

import (
  "context"
  "fmt"
  "strconv"
  "strings"
  "time"

  "github.com/tidwall/gjson"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/models"
  "scraper.local/tweets-fetcher/repositories"
)

type UsersRepository struct {
  GraphQL *GraphQL
}

func (r *UsersRepository) Process(ctx context.Context, account string) (user *models.User, err error) {
  variables := map[string]interface{}{}
  variables["screen_name"] = fmt.Sprintf("%v", account)
  variables["withSafetyModeUserFields"] = true
  features := map[string]interface{}{
    "hidden_profile_likes_enabled":                                      true,
    "hidden_profile_subscriptions_enabled":                              true,
    "responsive_web_graphql_exclude_directive_enabled":                  true,
    "verified_phone_label_enabled":                                      false,
    "subscriptions_verification_info_is_identity_verified_enabled":      true,
    "subscriptions_verification_info_verified_since_enabled":            true,
    "highlights_tweets_tab_ui_enabled":                                  true,
    "responsive_web_twitter_article_notes_tab_enabled":                  true,
    "creator_subscriptions_tweet_preview_api_enabled":                   true,
    "responsive_web_graphql_skip_user_profile_image_extensions_enabled": false,
    "responsive_web_graphql_timeline_navigation_enabled":                true,
  }
  fieldToggles := map[string]interface{}{
    "withAuxiliaryUserLabels": false,
  }

  body, err := r.GraphQL.Query(ctx, &Operation{
    Name: "UserByScreenName",
    QueryID: func(data *repositories.AccountData) string {
      return data.SectionUsers
    },
    Variables:    variables,
    Features:     features,
    FieldToggles: fieldToggles,
  })
  if err != nil {
    return
  }

  container := gjson.GetBytes(body, "data.user.result")
  if len(container.Raw) == 0 || container.Get("__typename").Str == "UserUnavailable" {
    err = fmt.Errorf("%w: %s", common.ErrUserNotFound, account)
    return
  }

  user = ParseUser(container)
  if user == nil {
    err = fmt.Errorf("%w: %s", common.ErrUserNotFound, account)
  }
  return
}

// ParseUser reads a user_results.result object, nil when it has no id.
func ParseUser(s gjson.Result) *models.User {
  userID := parseID(s.Get("rest_id"))
  if userID == 0 {
    return nil
  }
  username := firstString(s, "legacy.screen_name", "core.screen_name")
  createdAt, _ := time.Parse(time.RubyDate, firstString(s, "legacy.created_at", "core.created_at"))

  user := &models.User{
    ID:               userID,
    IDStr:            strconv.FormatInt(userID, 10),
    Url:              fmt.Sprintf(config.USER_URL, username),
    Username:         username,
    Displayname:      firstString(s, "legacy.name", "core.name"),
    RawDescription:   s.Get("legacy.description").Str,
    Created:          createdAt.UTC(),
    FollowersCount:   int(s.Get("legacy.followers_count").Int()),
    FriendsCount:     int(s.Get("legacy.friends_count").Int()),
    StatusesCount:    int(s.Get("legacy.statuses_count").Int()),
    FavouritesCount:  int(s.Get("legacy.favourites_count").Int()),
    ListedCount:      int(s.Get("legacy.listed_count").Int()),
    MediaCount:       int(s.Get("legacy.media_count").Int()),
    Location:         firstString(s, "legacy.location", "location.location"),
    ProfileImageUrl:  strings.Replace(firstString(s, "legacy.profile_image_url_https", "avatar.image_url"), "_normal.", ".", 1),
    ProfileBannerUrl: s.Get("legacy.profile_banner_url").Str,
    Protected:        s.Get("legacy.protected").Bool() || s.Get("privacy.protected").Bool(),
    Verified:         s.Get("legacy.verified").Bool(),
    Blue:             s.Get("is_blue_verified").Bool(),
    PinnedIds:        []int64{},
    Type:             models.USER_TYPE,
  }
  s.Get("legacy.pinned_tweet_ids_str").ForEach(func(_, id gjson.Result) bool {
    if pinned := parseID(id); pinned != 0 {
      user.PinnedIds = append(user.PinnedIds, pinned)
    }
    return true
  })
  return user
}

func parseID(s gjson.Result) int64 {
  id, _ := strconv.ParseInt(strings.Trim(s.Raw, "\""), 10, 64)
  return id
}

func firstString(s gjson.Result, paths ...string) string {
  for _, path := range paths {
    if val := s.Get(path).Str; val != "" {
      return val
    }
  }
  return ""
}
