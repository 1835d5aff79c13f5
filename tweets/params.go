package tweets

import (
  "strings"

  "scraper.local/tweets-fetcher/config"
)

// Params is one fetch request as given on the command line, the query
// string or an export job payload.
type Params struct {
  UsernameOrUrl   string `json:"username_or_url"`
  Limit           int    `json:"limit"`
  DbPath          string `json:"db_path"`
  Output          string `json:"output,omitempty"`
  IncludeRetweets bool   `json:"include_retweets"`
  ExcludePinned   bool   `json:"exclude_pinned"`
  OnlyMedia       bool   `json:"only_media"`
  OnlyLinks       bool   `json:"only_links"`
}

func NewParams(usernameOrUrl string) *Params {
  return &Params{
    UsernameOrUrl: usernameOrUrl,
    Limit:         config.DEFAULT_LIMIT,
    DbPath:        config.DEFAULT_DB_PATH,
  }
}

// Filters builds the filter list for the flags. The list is never nil, so
// IncludeRetweets with no other flag means no filtering at all.
func (p *Params) Filters() []Filter {
  filters := []Filter{}
  if !p.IncludeRetweets {
    filters = append(filters, ExcludeRetweets)
  }
  if p.ExcludePinned {
    filters = append(filters, ExcludePinned)
  }
  if p.OnlyMedia {
    filters = append(filters, OnlyWithMedia)
  }
  if p.OnlyLinks {
    filters = append(filters, OnlyWithLinks)
  }
  return filters
}

func (p *Params) Describe() string {
  var descriptions []string
  if !p.IncludeRetweets {
    descriptions = append(descriptions, "excluding retweets")
  }
  if p.ExcludePinned {
    descriptions = append(descriptions, "excluding pinned tweets")
  }
  if p.OnlyMedia {
    descriptions = append(descriptions, "only with media")
  }
  if p.OnlyLinks {
    descriptions = append(descriptions, "only with links")
  }
  if len(descriptions) == 0 {
    return "no filters"
  }
  return strings.Join(descriptions, ", ")
}
