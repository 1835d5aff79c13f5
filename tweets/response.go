package tweets

import "scraper.local/tweets-fetcher/models"

const DateDisplayLayout = "2006-01-02 15:04:05-07:00"

type LinkResponse struct {
  Url    string `json:"url"`
  Text   string `json:"text"`
  Tcourl string `json:"tcourl"`
}

type TweetResponse struct {
  ID           int64           `json:"id"`
  IDStr        string          `json:"id_str"`
  Url          string          `json:"url"`
  Date         string          `json:"date"`
  Username     string          `json:"username"`
  Displayname  string          `json:"displayname"`
  RawContent   string          `json:"rawContent"`
  LikeCount    int             `json:"likeCount"`
  RetweetCount int             `json:"retweetCount"`
  ReplyCount   int             `json:"replyCount"`
  Links        []*LinkResponse `json:"links"`
}

type TweetsResponse struct {
  Tweets []*TweetResponse `json:"tweets"`
  Count  int              `json:"count"`
}

func ToResponse(tweet *models.Tweet) *TweetResponse {
  response := &TweetResponse{
    ID:           tweet.ID,
    IDStr:        tweet.IDStr,
    Url:          tweet.Url,
    Date:         tweet.Date.Format(DateDisplayLayout),
    RawContent:   tweet.RawContent,
    LikeCount:    tweet.LikeCount,
    RetweetCount: tweet.RetweetCount,
    ReplyCount:   tweet.ReplyCount,
    Links:        []*LinkResponse{},
  }
  if tweet.User != nil {
    response.Username = tweet.User.Username
    response.Displayname = tweet.User.Displayname
  }
  for _, link := range tweet.Links {
    response.Links = append(response.Links, &LinkResponse{
      Url:    link.Url,
      Text:   link.Text,
      Tcourl: link.Tcourl,
    })
  }
  return response
}

func ToTweetsResponse(tweets []*models.Tweet) *TweetsResponse {
  response := &TweetsResponse{
    Tweets: make([]*TweetResponse, 0, len(tweets)),
  }
  for _, tweet := range tweets {
    response.Tweets = append(response.Tweets, ToResponse(tweet))
  }
  response.Count = len(response.Tweets)
  return response
}
