package scrapers

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "net/http"
  "strings"
  "time"

  "github.com/rs/zerolog/log"
  "github.com/tidwall/gjson"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/models"
  "scraper.local/tweets-fetcher/repositories"
)

type GraphQL struct {
  AccountsRepository *repositories.AccountsRepository
  BaseUrl            string
}

type Operation struct {
  Name         string
  QueryID      func(data *repositories.AccountData) string
  Variables    map[string]interface{}
  Features     map[string]interface{}
  FieldToggles map[string]interface{}
}

// Query runs op on the least recently used account, moving on to the next
// one when an account is rejected (401/403, disabled) or throttled (429,
// blocked for ACCOUNT_BLOCKED_TIMEOUT).
func (g *GraphQL) Query(ctx context.Context, op *Operation) (body []byte, err error) {
  var lastErr error
  for {
    if err = ctx.Err(); err != nil {
      return
    }
    account, err := g.AccountsRepository.Current()
    if errors.Is(err, common.ErrNoAccounts) && lastErr != nil {
      return nil, lastErr
    }
    if err != nil {
      return nil, err
    }

    body, status, err := g.do(ctx, account, op)
    if err != nil {
      return nil, err
    }

    switch {
    case status == http.StatusUnauthorized || status == http.StatusForbidden:
      log.Warn().Str("account", account.Username).Int("status", status).Msg("account rejected, disabling")
      if err := g.AccountsRepository.Disable(account); err != nil {
        return nil, err
      }
      lastErr = fmt.Errorf("%w: account[%s] code[%d]", common.ErrUnauthorized, account.Username, status)
      continue
    case status == http.StatusTooManyRequests || isRateLimited(body):
      log.Warn().Str("account", account.Username).Msg("account rate limited, blocking")
      if err := g.AccountsRepository.Block(account); err != nil {
        return nil, err
      }
      lastErr = fmt.Errorf("%w: account[%s] operation[%s]", common.ErrRateLimited, account.Username, op.Name)
      continue
    case status != http.StatusOK:
      return nil, fmt.Errorf(
        "%w: account[%s] operation[%s] code[%d]",
        common.ErrUpstream,
        account.Username,
        op.Name,
        status,
      )
    }
    return body, nil
  }
}

func (g *GraphQL) do(ctx context.Context, account *models.Account, op *Operation) (body []byte, status int, err error) {
  httpClient, err := common.NewHttpClient(account.Proxy, 15*time.Second)
  if err != nil {
    return
  }
  cookie, err := g.AccountsRepository.Cookie(account)
  if err != nil {
    return
  }
  data := g.AccountsRepository.Data(account)

  url := fmt.Sprintf(g.baseUrl(), op.QueryID(data), op.Name)
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
  if err != nil {
    return
  }

  headers := map[string]string{
    "User-Agent":            account.Agent,
    "Cookie":                cookie,
    "Authorization":         fmt.Sprintf("Bearer %v", data.AccessToken),
    "Content-Type":          "application/json",
    "X-Twitter-Active-User": "yes",
    "X-Twitter-Auth-Type":   "OAuth2Session",
  }
  if csrf := CsrfToken(cookie); csrf != "" {
    headers["X-Csrf-Token"] = csrf
  }
  for key, val := range headers {
    req.Header.Set(key, val)
  }

  q := req.URL.Query()
  for key, val := range map[string]map[string]interface{}{
    "variables":    op.Variables,
    "features":     op.Features,
    "fieldToggles": op.FieldToggles,
  } {
    if val == nil {
      continue
    }
    buf, _ := json.Marshal(val)
    q.Add(key, string(buf))
  }
  req.URL.RawQuery = q.Encode()

  resp, err := httpClient.Do(req)
  if err != nil {
    err = fmt.Errorf("%w: account[%s] operation[%s]: %v", common.ErrUpstream, account.Username, op.Name, err)
    return
  }
  defer resp.Body.Close()

  body, err = io.ReadAll(resp.Body)
  if err != nil {
    err = fmt.Errorf("%w: read %s response: %v", common.ErrUpstream, op.Name, err)
    return
  }
  return body, resp.StatusCode, nil
}

func (g *GraphQL) baseUrl() string {
  if g.BaseUrl != "" {
    return g.BaseUrl
  }
  return config.TWITTER_GRAPHQL_URL
}

func CsrfToken(cookie string) string {
  for _, p := range strings.Split(cookie, ";") {
    parts := strings.SplitN(p, "=", 2)
    if len(parts) == 2 && strings.TrimSpace(parts[0]) == "ct0" {
      return strings.TrimSpace(parts[1])
    }
  }
  return ""
}

func isRateLimited(body []byte) bool {
  limited := false
  gjson.GetBytes(body, "errors").ForEach(func(_, s gjson.Result) bool {
    if s.Get("code").Int() == 88 {
      limited = true
      return false
    }
    return true
  })
  return limited
}
