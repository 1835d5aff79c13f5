package common

import (
  "context"
  "errors"
  "fmt"
  "strconv"
  "strings"
  "time"

  "github.com/go-redis/redis/v8"
  "github.com/hibiken/asynq"
  "github.com/nats-io/nats.go"
  "github.com/rs/xid"
  "gorm.io/driver/postgres"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  "gorm.io/gorm/logger"
  _ "modernc.org/sqlite"
)

type ApiContext struct {
  Rdb      *redis.Client
  Ctx      context.Context
  CacheTTL time.Duration
}

type AnsqServerContext struct {
  Rdb  *redis.Client
  Ctx  context.Context
  Mux  *asynq.ServeMux
  Nats *nats.Conn
}

type AnsqClientContext struct {
  Rdb  *redis.Client
  Ctx  context.Context
  Conn *asynq.Client
}

type NatsContext struct {
  Conn *nats.Conn
  Ctx  context.Context
}

type Mutex struct {
  rdb   *redis.Client
  ctx   context.Context
  key   string
  value string
}

func IsPostgresDSN(dsn string) bool {
  return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// SqliteDSN appends the busy timeout pragma, keeping any query string
// already present in dsn.
func SqliteDSN(dsn string) string {
  sep := "?"
  if strings.Contains(dsn, "?") {
    sep = "&"
  }
  return dsn + sep + "_pragma=busy_timeout(5000)"
}

// NewDB opens the accounts store, a sqlite file unless dsn is a postgres url.
func NewDB(dsn string) (*gorm.DB, error) {
  if dsn == "" {
    return nil, errors.New("db path can not be empty")
  }
  var dialector gorm.Dialector
  if IsPostgresDSN(dsn) {
    dialector = postgres.New(postgres.Config{
      DSN: dsn,
    })
  } else {
    dialector = &sqlite.Dialector{
      DriverName: "sqlite",
      DSN:        SqliteDSN(dsn),
    }
  }
  db, err := gorm.Open(dialector, &gorm.Config{
    Logger: logger.Default.LogMode(logger.Silent),
  })
  if err != nil {
    return nil, fmt.Errorf("open accounts db %s: %w", dsn, err)
  }
  return db, nil
}

func CloseDB(db *gorm.DB) error {
  sqlDB, err := db.DB()
  if err != nil {
    return err
  }
  return sqlDB.Close()
}

// NewRedis returns nil when REDIS_HOST is not configured.
func NewRedis() *redis.Client {
  if GetEnvString("REDIS_HOST") == "" {
    return nil
  }
  return redis.NewClient(&redis.Options{
    Addr:     GetEnvString("REDIS_HOST"),
    Password: GetEnvString("REDIS_PASSWORD"),
    DB:       GetEnvInt("REDIS_DB"),
  })
}

func asynqRedisOpt() asynq.RedisClientOpt {
  return asynq.RedisClientOpt{
    Addr:     GetEnvStringOr("ASYNQ_REDIS_ADDR", "127.0.0.1:6379"),
    Password: GetEnvString("ASYNQ_REDIS_PASSWORD"),
    DB:       GetEnvInt("ASYNQ_REDIS_DB"),
  }
}

func NewAsynqServer() *asynq.Server {
  queues := make(map[string]int)
  for _, item := range GetEnvArray("ASYNQ_QUEUE") {
    data := strings.Split(item, ",")
    if len(data) != 2 {
      continue
    }
    weight, _ := strconv.Atoi(data[1])
    queues[data[0]] = weight
  }
  if len(queues) == 0 {
    queues["tweets"] = 1
  }
  return asynq.NewServer(asynqRedisOpt(), asynq.Config{
    Concurrency: GetEnvIntOr("ASYNQ_CONCURRENCY", 2),
    Queues:      queues,
  })
}

func NewAsynqClient() *asynq.Client {
  return asynq.NewClient(asynqRedisOpt())
}

// NewNats returns nil without error when NATS_URL is not configured.
func NewNats() (*nats.Conn, error) {
  if GetEnvString("NATS_URL") == "" {
    return nil, nil
  }
  opts := []nats.Option{nats.Name("tweets-fetcher")}
  if token := GetEnvString("NATS_TOKEN"); token != "" {
    opts = append(opts, nats.Token(token))
  }
  return nats.Connect(GetEnvString("NATS_URL"), opts...)
}

func NewMutex(
  rdb *redis.Client,
  ctx context.Context,
  key string,
) *Mutex {
  return &Mutex{
    rdb:   rdb,
    ctx:   ctx,
    key:   key,
    value: xid.New().String(),
  }
}

func (m *Mutex) Lock(ttl time.Duration) bool {
  result, err := m.rdb.SetNX(
    m.ctx,
    m.key,
    m.value,
    ttl,
  ).Result()
  if err != nil {
    return false
  }
  return result
}

func (m *Mutex) Unlock() {
  script := redis.NewScript(`
  if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
  else
    return 0
  end
  `)
  script.Run(m.ctx, m.rdb, []string{m.key}, m.value).Result()
}
