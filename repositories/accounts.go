package repositories

import (
  "context"
  "errors"
  "fmt"
  "io"
  "net/http"
  "regexp"
  "strings"
  "sync"
  "time"

  "github.com/PuerkitoBio/goquery"
  "github.com/rs/xid"
  "github.com/rs/zerolog/log"
  "gorm.io/gorm"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/models"
)

var (
  reAccessToken  = regexp.MustCompile(`AAAAAAAAAAAAAAAAAAAAA[a-zA-Z0-9-_%]+`)
  reSectionUsers = regexp.MustCompile(`queryId:"([a-zA-Z0-9-_]+)",operationName:"UserByScreenName"`)
  reSectionPosts = regexp.MustCompile(`queryId:"([a-zA-Z0-9-_]+)",operationName:"UserTweets"`)
)

type AccountsRepository struct {
  Db      *gorm.DB
  Secret  string
  HomeUrl string

  cookies sync.Map
}

func (r *AccountsRepository) Migrate() error {
  return models.AutoMigrate(r.Db)
}

func (r *AccountsRepository) Get(username string) (entity *models.Account, err error) {
  err = r.Db.Where("username", username).Take(&entity).Error
  return
}

func (r *AccountsRepository) All() (accounts []*models.Account, err error) {
  err = r.Db.Order("username ASC").Find(&accounts).Error
  return
}

func (r *AccountsRepository) Add(
  username string,
  cookie string,
  agent string,
  proxy string,
) (account *models.Account, err error) {
  if username == "" {
    return nil, errors.New("account username can not be empty")
  }
  if cookie == "" {
    return nil, errors.New("account cookie can not be empty")
  }
  if agent == "" {
    agent = common.GetEnvStringOr("SCRAPER_AGENT", config.TWITTER_AGENT)
  }
  cookie, err = common.Encrypt(r.Secret, cookie)
  if err != nil {
    return
  }

  result := r.Db.Where("username", username).Take(&account)
  if errors.Is(result.Error, gorm.ErrRecordNotFound) {
    account = &models.Account{
      ID:       xid.New().String(),
      Username: username,
      Agent:    agent,
      Cookie:   cookie,
      Proxy:    proxy,
      Data:     common.JSONMap(&AccountData{}),
      Status:   config.ACCOUNT_STATUS_ACTIVE,
    }
    err = r.Db.Create(account).Error
    return
  }
  if result.Error != nil {
    return nil, result.Error
  }
  err = r.Updates(account, map[string]interface{}{
    "agent":        agent,
    "cookie":       cookie,
    "proxy":        proxy,
    "flushed_at":   0,
    "unblocked_at": 0,
    "status":       config.ACCOUNT_STATUS_ACTIVE,
  })
  return
}

// Current picks the least recently used active account that is not blocked
// and stamps it as used.
func (r *AccountsRepository) Current() (account *models.Account, err error) {
  timestamp := time.Now().UnixMicro()
  err = r.Db.
    Where("status = ? AND unblocked_at <= ?", config.ACCOUNT_STATUS_ACTIVE, timestamp).
    Order("timestamp ASC").
    Take(&account).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, common.ErrNoAccounts
  }
  if err != nil {
    return nil, err
  }
  err = r.Update(account, "timestamp", timestamp)
  return
}

// Cookie returns the plaintext cookie of account. Decrypted values are
// kept by ciphertext, so a replaced cookie is decrypted again.
func (r *AccountsRepository) Cookie(account *models.Account) (string, error) {
  if !common.IsEncrypted(account.Cookie) {
    return account.Cookie, nil
  }
  if cookie, ok := r.cookies.Load(account.Cookie); ok {
    return cookie.(string), nil
  }
  cookie, err := common.Decrypt(r.Secret, account.Cookie)
  if err != nil {
    return "", err
  }
  r.cookies.Store(account.Cookie, cookie)
  return cookie, nil
}

func (r *AccountsRepository) Data(account *models.Account) *AccountData {
  var data *AccountData
  common.FromJSONMap(account.Data, &data)
  return data.WithDefaults()
}

func (r *AccountsRepository) Disable(account *models.Account) error {
  return r.Update(account, "status", config.ACCOUNT_STATUS_DISABLED)
}

func (r *AccountsRepository) Block(account *models.Account) error {
  return r.Update(account, "unblocked_at", time.Now().UnixMicro()+config.ACCOUNT_BLOCKED_TIMEOUT)
}

// LoginAll refreshes the tokens of every active account not flushed within
// ACCOUNT_FLUSH_INTERVAL. Flush failures are logged and skipped.
func (r *AccountsRepository) LoginAll(ctx context.Context) (active int, err error) {
  var accounts []*models.Account
  err = r.Db.Where("status", config.ACCOUNT_STATUS_ACTIVE).Find(&accounts).Error
  if err != nil {
    return
  }
  timestamp := time.Now().UnixMicro()
  for _, account := range accounts {
    active++
    if timestamp-account.FlushedAt < config.ACCOUNT_FLUSH_INTERVAL {
      continue
    }
    if err := r.Flush(ctx, account); err != nil {
      log.Warn().Err(err).Str("account", account.Username).Msg("account flush failed")
    }
  }
  return active, nil
}

func (r *AccountsRepository) Flush(ctx context.Context, account *models.Account) (err error) {
  body, err := r.get(ctx, account, r.homeUrl())
  if err != nil {
    return
  }
  defer body.Close()

  doc, err := goquery.NewDocumentFromReader(body)
  if err != nil {
    return
  }

  var scripts []string
  doc.Find("script").Each(func(i int, s *goquery.Selection) {
    if src, ok := s.Attr("src"); ok {
      if strings.Contains(src, "client-web/main.") || strings.Contains(src, "client-web-legacy/main.") {
        scripts = append(scripts, src)
      }
    }
  })

  data := &AccountData{}
  for _, src := range scripts {
    parsed, err := r.ExtractMainJS(ctx, account, src)
    if err != nil {
      log.Debug().Err(err).Str("account", account.Username).Msg("main js not parsed")
      continue
    }
    data = parsed
    break
  }

  return r.Updates(account, map[string]interface{}{
    "data":       common.JSONMap(data),
    "flushed_at": time.Now().UnixMicro(),
  })
}

func (r *AccountsRepository) ExtractMainJS(ctx context.Context, account *models.Account, url string) (data *AccountData, err error) {
  body, err := r.get(ctx, account, url)
  if err != nil {
    return
  }
  defer body.Close()

  buf, err := io.ReadAll(body)
  if err != nil {
    return
  }
  data = ParseMainJS(string(buf))
  if data.AccessToken == "" {
    err = errors.New("access token not found")
  }
  return
}

func ParseMainJS(content string) *AccountData {
  data := &AccountData{}
  data.AccessToken = reAccessToken.FindString(content)
  if matches := reSectionUsers.FindStringSubmatch(content); len(matches) > 1 {
    data.SectionUsers = matches[1]
  }
  if matches := reSectionPosts.FindStringSubmatch(content); len(matches) > 1 {
    data.SectionPosts = matches[1]
  }
  return data
}

func (r *AccountsRepository) get(ctx context.Context, account *models.Account, url string) (io.ReadCloser, error) {
  httpClient, err := common.NewHttpClient(account.Proxy, 15*time.Second)
  if err != nil {
    return nil, err
  }
  cookie, err := r.Cookie(account)
  if err != nil {
    return nil, err
  }

  req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
  if err != nil {
    return nil, err
  }
  req.Header.Set("User-Agent", account.Agent)
  req.Header.Set("Cookie", cookie)
  resp, err := httpClient.Do(req)
  if err != nil {
    return nil, fmt.Errorf("%w: %v", common.ErrUpstream, err)
  }
  if resp.StatusCode != http.StatusOK {
    resp.Body.Close()
    return nil, fmt.Errorf(
      "%w: account[%s] status[%s] url[%s]",
      common.ErrUpstream,
      account.Username,
      resp.Status,
      url,
    )
  }
  return resp.Body, nil
}

func (r *AccountsRepository) homeUrl() string {
  if r.HomeUrl != "" {
    return r.HomeUrl
  }
  return config.TWITTER_HOME_URL
}

func (r *AccountsRepository) Update(account *models.Account, column string, value interface{}) error {
  return r.Db.Model(account).Update(column, value).Error
}

func (r *AccountsRepository) Updates(account *models.Account, values map[string]interface{}) error {
  return r.Db.Model(account).Updates(values).Error
}
