package config

const (
  APP_NAME        = "Twitter Tweets API"
  APP_DESCRIPTION = "API to fetch tweets from a Twitter account"
  APP_VERSION     = "1.0.0"

  DEFAULT_DB_PATH  = "./accounts.db"
  DEFAULT_LIMIT    = 10
  DEFAULT_API_HOST = "0.0.0.0"
  DEFAULT_API_PORT = 8000

  API_LIMIT_MIN = 1
  API_LIMIT_MAX = 100

  // streamed tweets per requested tweet, compensates for filtered ones
  FETCH_MULTIPLIER = 3

  OUTPUT_FILE_SUFFIX = "_tweets.json"
  STATUS_URL         = "https://twitter.com/%s/status/%v"
  TWEET_URL          = "https://x.com/%s/status/%v"
  USER_URL           = "https://x.com/%s"

  TWITTER_HOME_URL    = "https://x.com/home"
  TWITTER_GRAPHQL_URL = "https://x.com/i/api/graphql/%s/%s"
  TWITTER_AGENT       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
  TWITTER_BEARER      = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

  QUERY_ID_USER_BY_SCREEN_NAME = "xmU6X_CKVnQ5lSrCbAmJsg"
  QUERY_ID_USER_TWEETS         = "E3opETHurmVJflFsUBVuUQ"

  TWEETS_PAGE_SIZE = 20

  ACCOUNT_STATUS_DISABLED = 0
  ACCOUNT_STATUS_ACTIVE   = 1

  // microseconds
  ACCOUNT_FLUSH_INTERVAL  = 3600000000
  ACCOUNT_BLOCKED_TIMEOUT = 900000000

  REDIS_KEY_TWEETS_CACHE = "tweets:cache:%s"
  LOCKS_TWEETS_EXPORT    = "locks:tweets:export:%s"

  ASYNQ_QUEUE_TWEETS       = "tweets"
  ASYNQ_JOBS_TWEETS_EXPORT = "tweets:export"

  NATS_TWEETS_EXPORTED = "tweets.exported"
)
