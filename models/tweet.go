package models

import "time"

const (
  TWEET_TYPE = "snscrape.modules.twitter.Tweet"
  USER_TYPE  = "snscrape.modules.twitter.User"
)

type Tweet struct {
  ID                int64      `json:"id"`
  IDStr             string     `json:"id_str"`
  Url               string     `json:"url"`
  Date              time.Time  `json:"date"`
  User              *User      `json:"user"`
  Lang              string     `json:"lang"`
  RawContent        string     `json:"rawContent"`
  ReplyCount        int        `json:"replyCount"`
  RetweetCount      int        `json:"retweetCount"`
  LikeCount         int        `json:"likeCount"`
  QuoteCount        int        `json:"quoteCount"`
  BookmarkedCount   int        `json:"bookmarkedCount"`
  ConversationID    int64      `json:"conversationId"`
  ConversationIDStr string     `json:"conversationIdStr"`
  Hashtags          []string   `json:"hashtags"`
  Cashtags          []string   `json:"cashtags"`
  MentionedUsers    []*UserRef `json:"mentionedUsers"`
  Links             []*Link    `json:"links"`
  Media             *Media     `json:"media"`
  ViewCount         *int       `json:"viewCount"`
  RetweetedTweet    *Tweet     `json:"retweetedTweet"`
  QuotedTweet       *Tweet     `json:"quotedTweet"`
  InReplyToTweetID  *int64     `json:"inReplyToTweetId"`
  InReplyToUser     *UserRef   `json:"inReplyToUser"`
  SourceLabel       string     `json:"sourceLabel"`
  PossiblySensitive bool       `json:"possibly_sensitive"`
  Type              string     `json:"_type"`
}

type User struct {
  ID               int64     `json:"id"`
  IDStr            string    `json:"id_str"`
  Url              string    `json:"url"`
  Username         string    `json:"username"`
  Displayname      string    `json:"displayname"`
  RawDescription   string    `json:"rawDescription"`
  Created          time.Time `json:"created"`
  FollowersCount   int       `json:"followersCount"`
  FriendsCount     int       `json:"friendsCount"`
  StatusesCount    int       `json:"statusesCount"`
  FavouritesCount  int       `json:"favouritesCount"`
  ListedCount      int       `json:"listedCount"`
  MediaCount       int       `json:"mediaCount"`
  Location         string    `json:"location"`
  ProfileImageUrl  string    `json:"profileImageUrl"`
  ProfileBannerUrl string    `json:"profileBannerUrl"`
  Protected        bool      `json:"protected"`
  Verified         bool      `json:"verified"`
  Blue             bool      `json:"blue"`
  PinnedIds        []int64   `json:"pinnedIds"`
  Type             string    `json:"_type"`
}

type UserRef struct {
  ID          int64  `json:"id"`
  IDStr       string `json:"id_str"`
  Username    string `json:"username"`
  Displayname string `json:"displayname"`
}

type Link struct {
  Url    string `json:"url"`
  Text   string `json:"text"`
  Tcourl string `json:"tcourl"`
}

type Media struct {
  Photos   []*MediaPhoto    `json:"photos"`
  Videos   []*MediaVideo    `json:"videos"`
  Animated []*MediaAnimated `json:"animated"`
}

type MediaPhoto struct {
  Url string `json:"url"`
}

type MediaVideo struct {
  ThumbnailUrl string          `json:"thumbnailUrl"`
  Variants     []*VideoVariant `json:"variants"`
  Duration     int             `json:"duration"`
  Views        *int            `json:"views"`
}

type VideoVariant struct {
  ContentType string `json:"contentType"`
  Bitrate     int    `json:"bitrate"`
  Url         string `json:"url"`
}

type MediaAnimated struct {
  ThumbnailUrl string `json:"thumbnailUrl"`
  VideoUrl     string `json:"videoUrl"`
}

func (m *User) IsPinned(tweetID int64) bool {
  if m == nil {
    return false
  }
  for _, id := range m.PinnedIds {
    if id == tweetID {
      return true
    }
  }
  return false
}

func (m *Media) IsEmpty() bool {
  return m == nil || (len(m.Photos) == 0 && len(m.Videos) == 0 && len(m.Animated) == 0)
}
