package tweets

import (
  "bytes"
  "encoding/json"
  "os"

  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/models"
)

func DefaultOutput(username string) string {
  return username + config.OUTPUT_FILE_SUFFIX
}

// MarshalTweets renders tweets as an indented JSON array, "[]" when empty.
func MarshalTweets(tweets []*models.Tweet) ([]byte, error) {
  if tweets == nil {
    tweets = []*models.Tweet{}
  }
  var buf bytes.Buffer
  encoder := json.NewEncoder(&buf)
  encoder.SetEscapeHTML(false)
  encoder.SetIndent("", "  ")
  if err := encoder.Encode(tweets); err != nil {
    return nil, err
  }
  return buf.Bytes(), nil
}

// SaveJSON writes tweets to output, or {username}_tweets.json when output is
// empty, replacing any existing file. It returns the path written.
func SaveJSON(tweets []*models.Tweet, username string, output string) (string, error) {
  if output == "" {
    output = DefaultOutput(username)
  }
  buf, err := MarshalTweets(tweets)
  if err != nil {
    return "", err
  }
  if err := os.WriteFile(output, buf, 0644); err != nil {
    return "", err
  }
  return output, nil
}
