package scrapers

import (
  "context"
  "fmt"
  "regexp"
  "strconv"
  "strings"
  "time"

  "github.com/tidwall/gjson"

  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/models"
  "scraper.local/tweets-fetcher/repositories"
)

var reSourceLabel = regexp.MustCompile(`>([^<]*)<`)

type PostsRepository struct {
  GraphQL *GraphQL
}

func (r *PostsRepository) Process(ctx context.Context, userID int64, cursor string) (tweets []*models.Tweet, next string, err error) {
  variables := map[string]interface{}{}
  variables["userId"] = fmt.Sprintf("%v", userID)
  variables["count"] = config.TWEETS_PAGE_SIZE
  if cursor != "" {
    variables["cursor"] = cursor
  }
  variables["includePromotedContent"] = true
  variables["withQuickPromoteEligibilityTweetFields"] = true
  variables["withVoice"] = true
  variables["withV2Timeline"] = true
  features := map[string]interface{}{
    "responsive_web_graphql_exclude_directive_enabled":                        true,
    "verified_phone_label_enabled":                                            false,
    "creator_subscriptions_tweet_preview_api_enabled":                         true,
    "responsive_web_graphql_timeline_navigation_enabled":                      true,
    "responsive_web_graphql_skip_user_profile_image_extensions_enabled":       false,
    "communities_web_enable_tweet_community_results_fetch":                    true,
    "c9s_tweet_anatomy_moderator_badge_enabled":                               true,
    "tweetypie_unmention_optimization_enabled":                                true,
    "responsive_web_edit_tweet_api_enabled":                                   true,
    "graphql_is_translatable_rweb_tweet_is_translatable_enabled":              true,
    "view_counts_everywhere_api_enabled":                                      true,
    "longform_notetweets_consumption_enabled":                                 true,
    "responsive_web_twitter_article_tweet_consumption_enabled":                true,
    "tweet_awards_web_tipping_enabled":                                        false,
    "freedom_of_speech_not_reach_fetch_enabled":                               true,
    "standardized_nudges_misinfo":                                             true,
    "tweet_with_visibility_results_prefer_gql_limited_actions_policy_enabled": true,
    "rweb_video_timestamps_enabled":                                           true,
    "longform_notetweets_rich_text_read_enabled":                              true,
    "longform_notetweets_inline_media_enabled":                                true,
    "responsive_web_enhance_cards_enabled":                                    false,
  }
  fieldToggles := map[string]interface{}{
    "withArticleRichContentState": false,
  }

  body, err := r.GraphQL.Query(ctx, &Operation{
    Name: "UserTweets",
    QueryID: func(data *repositories.AccountData) string {
      return data.SectionPosts
    },
    Variables:    variables,
    Features:     features,
    FieldToggles: fieldToggles,
  })
  if err != nil {
    return
  }

  tweets, next = ParseTimeline(body)
  return
}

// ParseTimeline returns the tweets of one UserTweets page in document order,
// deduplicated, and the Bottom cursor ("" when the timeline is exhausted).
func ParseTimeline(body []byte) (tweets []*models.Tweet, cursor string) {
  container := gjson.GetBytes(body, "data.user.result.timeline_v2.timeline")
  if !container.Exists() {
    container = gjson.GetBytes(body, "data.user.result.timeline.timeline")
  }

  seen := make(map[int64]bool)
  add := func(s gjson.Result) {
    tweet := ParseTweet(s)
    if tweet == nil || seen[tweet.ID] {
      return
    }
    seen[tweet.ID] = true
    tweets = append(tweets, tweet)
  }
  entry := func(s gjson.Result) {
    switch s.Get("content.entryType").Str {
    case "TimelineTimelineItem":
      if s.Get("content.itemContent.itemType").Str == "TimelineTweet" {
        add(s.Get("content.itemContent.tweet_results.result"))
      }
    case "TimelineTimelineModule":
      s.Get("content.items").ForEach(func(_, item gjson.Result) bool {
        if item.Get("item.itemContent.itemType").Str == "TimelineTweet" {
          add(item.Get("item.itemContent.tweet_results.result"))
        }
        return true
      })
    case "TimelineTimelineCursor":
      if s.Get("content.cursorType").Str == "Bottom" {
        cursor = s.Get("content.value").Str
      }
    }
  }

  container.Get("instructions").ForEach(func(_, s gjson.Result) bool {
    switch s.Get("type").Str {
    case "TimelinePinEntry", "TimelineReplaceEntry":
      entry(s.Get("entry"))
    case "TimelineAddEntries":
      s.Get("entries").ForEach(func(_, s gjson.Result) bool {
        entry(s)
        return true
      })
    }
    return true
  })

  if len(tweets) == 0 {
    cursor = ""
  }
  return
}

// ParseTweet reads a tweet_results.result object, unwrapping
// TweetWithVisibilityResults. nil when the object is not a readable tweet.
func ParseTweet(s gjson.Result) *models.Tweet {
  if s.Get("__typename").Str == "TweetWithVisibilityResults" {
    s = s.Get("tweet")
  }
  legacy := s.Get("legacy")
  if !legacy.Exists() {
    return nil
  }
  id := parseID(s.Get("rest_id"))
  if id == 0 {
    id = parseID(legacy.Get("id_str"))
  }
  if id == 0 {
    return nil
  }
  user := ParseUser(s.Get("core.user_results.result"))
  if user == nil {
    return nil
  }

  date, _ := time.Parse(time.RubyDate, legacy.Get("created_at").Str)
  content := s.Get("note_tweet.note_tweet_results.result.text").Str
  if content == "" {
    content = legacy.Get("full_text").Str
  }
  conversationID := parseID(legacy.Get("conversation_id_str"))

  tweet := &models.Tweet{
    ID:                id,
    IDStr:             strconv.FormatInt(id, 10),
    Url:               fmt.Sprintf(config.TWEET_URL, user.Username, id),
    Date:              date.UTC(),
    User:              user,
    Lang:              legacy.Get("lang").Str,
    RawContent:        content,
    ReplyCount:        int(legacy.Get("reply_count").Int()),
    RetweetCount:      int(legacy.Get("retweet_count").Int()),
    LikeCount:         int(legacy.Get("favorite_count").Int()),
    QuoteCount:        int(legacy.Get("quote_count").Int()),
    BookmarkedCount:   int(legacy.Get("bookmark_count").Int()),
    ConversationID:    conversationID,
    ConversationIDStr: strconv.FormatInt(conversationID, 10),
    Hashtags:          []string{},
    Cashtags:          []string{},
    MentionedUsers:    []*models.UserRef{},
    Links:             []*models.Link{},
    Media:             parseMedia(legacy),
    SourceLabel:       parseSourceLabel(s.Get("source").Str),
    PossiblySensitive: legacy.Get("possibly_sensitive").Bool(),
    Type:              models.TWEET_TYPE,
  }

  legacy.Get("entities.hashtags").ForEach(func(_, h gjson.Result) bool {
    tweet.Hashtags = append(tweet.Hashtags, h.Get("text").Str)
    return true
  })
  legacy.Get("entities.symbols").ForEach(func(_, h gjson.Result) bool {
    tweet.Cashtags = append(tweet.Cashtags, h.Get("text").Str)
    return true
  })
  legacy.Get("entities.user_mentions").ForEach(func(_, m gjson.Result) bool {
    mentionID := parseID(m.Get("id_str"))
    tweet.MentionedUsers = append(tweet.MentionedUsers, &models.UserRef{
      ID:          mentionID,
      IDStr:       strconv.FormatInt(mentionID, 10),
      Username:    m.Get("screen_name").Str,
      Displayname: m.Get("name").Str,
    })
    return true
  })
  legacy.Get("entities.urls").ForEach(func(_, u gjson.Result) bool {
    if u.Get("expanded_url").Str == "" {
      return true
    }
    tweet.Links = append(tweet.Links, &models.Link{
      Url:    u.Get("expanded_url").Str,
      Text:   u.Get("display_url").Str,
      Tcourl: u.Get("url").Str,
    })
    return true
  })

  if views := s.Get("views.count"); views.Exists() {
    count := int(parseID(views))
    tweet.ViewCount = &count
  }
  if replyID := parseID(legacy.Get("in_reply_to_status_id_str")); replyID != 0 {
    tweet.InReplyToTweetID = &replyID
  }
  if replyUserID := parseID(legacy.Get("in_reply_to_user_id_str")); replyUserID != 0 {
    tweet.InReplyToUser = &models.UserRef{
      ID:       replyUserID,
      IDStr:    strconv.FormatInt(replyUserID, 10),
      Username: legacy.Get("in_reply_to_screen_name").Str,
    }
  }
  if retweeted := legacy.Get("retweeted_status_result.result"); retweeted.Exists() {
    tweet.RetweetedTweet = ParseTweet(retweeted)
  }
  if quoted := s.Get("quoted_status_result.result"); quoted.Exists() {
    tweet.QuotedTweet = ParseTweet(quoted)
  }
  return tweet
}

func parseMedia(legacy gjson.Result) *models.Media {
  media := &models.Media{
    Photos:   []*models.MediaPhoto{},
    Videos:   []*models.MediaVideo{},
    Animated: []*models.MediaAnimated{},
  }
  items := legacy.Get("extended_entities.media")
  if !items.Exists() {
    items = legacy.Get("entities.media")
  }
  items.ForEach(func(_, s gjson.Result) bool {
    switch s.Get("type").Str {
    case "photo":
      media.Photos = append(media.Photos, &models.MediaPhoto{
        Url: s.Get("media_url_https").Str,
      })
    case "video":
      video := &models.MediaVideo{
        ThumbnailUrl: s.Get("media_url_https").Str,
        Variants:     []*models.VideoVariant{},
        Duration:     int(s.Get("video_info.duration_millis").Int()),
      }
      if views := s.Get("mediaStats.viewCount"); views.Exists() {
        count := int(views.Int())
        video.Views = &count
      }
      s.Get("video_info.variants").ForEach(func(_, v gjson.Result) bool {
        video.Variants = append(video.Variants, &models.VideoVariant{
          ContentType: v.Get("content_type").Str,
          Bitrate:     int(v.Get("bitrate").Int()),
          Url:         v.Get("url").Str,
        })
        return true
      })
      media.Videos = append(media.Videos, video)
    case "animated_gif":
      media.Animated = append(media.Animated, &models.MediaAnimated{
        ThumbnailUrl: s.Get("media_url_https").Str,
        VideoUrl:     s.Get("video_info.variants.0.url").Str,
      })
    }
    return true
  })
  return media
}

func parseSourceLabel(source string) string {
  if matches := reSourceLabel.FindStringSubmatch(source); len(matches) > 1 {
    return strings.TrimSpace(matches[1])
  }
  return ""
}
