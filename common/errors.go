package common

import "errors"

var (
  ErrUserNotFound = errors.New("user not found")
  ErrNoAccounts   = errors.New("no active accounts available")
  ErrUnauthorized = errors.New("account unauthorized")
  ErrRateLimited  = errors.New("account rate limited")
  ErrUpstream     = errors.New("upstream request failed")
)
