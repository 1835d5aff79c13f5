package tweets

import (
  "errors"
  "fmt"
  "regexp"
  "strings"
)

var ErrUnresolvableURL = errors.New("could not extract username from URL")

var usernamePatterns = []*regexp.Regexp{
  regexp.MustCompile(`(?:https?://)?(?:www\.)?twitter\.com/([^/\s?]+)`),
  regexp.MustCompile(`(?:https?://)?(?:www\.)?x\.com/([^/\s?]+)`),
}

// ExtractUsername returns the first path segment after a twitter.com or
// x.com host found anywhere in url.
func ExtractUsername(url string) (string, bool) {
  for _, re := range usernamePatterns {
    if matches := re.FindStringSubmatch(url); len(matches) > 1 {
      return matches[1], true
    }
  }
  return "", false
}

// LooksLikeURL reports whether input should be parsed as a profile url.
func LooksLikeURL(input string) bool {
  return strings.HasPrefix(input, "http") ||
    strings.Contains(input, "twitter.com") ||
    strings.Contains(input, "x.com")
}

// ResolveUsername treats input as a profile url when it looks like one and
// as a literal handle otherwise.
func ResolveUsername(input string) (string, error) {
  if !LooksLikeURL(input) {
    return input, nil
  }
  username, ok := ExtractUsername(input)
  if !ok {
    return "", fmt.Errorf("%w: %s", ErrUnresolvableURL, input)
  }
  return username, nil
}
