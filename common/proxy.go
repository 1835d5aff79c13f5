package common

import (
  "context"
  "net"
  "net/http"
  "net/url"
  "strings"
  "time"

  "h12.io/socks"
)

type ProxySession struct {
  Proxy string
}

func (s *ProxySession) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
  type result struct {
    conn net.Conn
    err  error
  }
  ch := make(chan result, 1)
  go func() {
    conn, err := socks.Dial(s.Proxy)(network, addr)
    ch <- result{conn, err}
  }()
  select {
  case <-ctx.Done():
    go func() {
      if r := <-ch; r.conn != nil {
        r.conn.Close()
      }
    }()
    return nil, ctx.Err()
  case r := <-ch:
    return r.conn, r.err
  }
}

func IsSocksProxy(proxy string) bool {
  return strings.HasPrefix(proxy, "socks4://") ||
    strings.HasPrefix(proxy, "socks4a://") ||
    strings.HasPrefix(proxy, "socks5://")
}

// NewHttpClient returns a client dialing through proxy when it is set.
func NewHttpClient(proxy string, timeout time.Duration) (*http.Client, error) {
  tr := &http.Transport{
    DisableKeepAlives: true,
  }
  switch {
  case proxy == "":
    tr.DialContext = (&net.Dialer{}).DialContext
  case IsSocksProxy(proxy):
    tr.DialContext = (&ProxySession{Proxy: proxy}).DialContext
  default:
    u, err := url.Parse(proxy)
    if err != nil {
      return nil, err
    }
    tr.Proxy = http.ProxyURL(u)
    tr.DialContext = (&net.Dialer{}).DialContext
  }
  return &http.Client{
    Transport: tr,
    Timeout:   timeout,
  }, nil
}
