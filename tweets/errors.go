package tweets

import (
  "context"
  "errors"

  "scraper.local/tweets-fetcher/common"
)

type ErrorKind string

const (
  KindNotFound  ErrorKind = "not_found"
  KindTransient ErrorKind = "transient"
  KindAuth      ErrorKind = "auth"
  KindUnknown   ErrorKind = "unknown"
)

// FetchError carries the kind of a failed fetch so callers can tell
// retryable failures from terminal ones.
type FetchError struct {
  Kind ErrorKind
  Err  error
}

func (e *FetchError) Error() string {
  return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
  return e.Err
}

func (e *FetchError) Retryable() bool {
  return e.Kind == KindTransient
}

func Classify(err error) ErrorKind {
  var fetchErr *FetchError
  switch {
  case err == nil:
    return ""
  case errors.As(err, &fetchErr):
    return fetchErr.Kind
  case errors.Is(err, common.ErrUserNotFound):
    return KindNotFound
  case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrNoAccounts):
    return KindAuth
  case errors.Is(err, common.ErrRateLimited),
    errors.Is(err, common.ErrUpstream),
    errors.Is(err, context.DeadlineExceeded):
    return KindTransient
  }
  return KindUnknown
}

func wrapError(err error) *FetchError {
  return &FetchError{
    Kind: Classify(err),
    Err:  err,
  }
}
