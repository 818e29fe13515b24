package fetch

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"
)

// ClientConfig carries the HTTP settings applied uniformly to every
// request the downloader issues.
type ClientConfig struct {
	Timeout   time.Duration
	Proxy     string
	VerifyTLS bool
	UserAgent string
}

// NewClient builds an http.Client from the given configuration.
func NewClient(cfg ClientConfig) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: cfg.Timeout,
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if !cfg.VerifyTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &http.Client{Transport: transport}, nil
}
