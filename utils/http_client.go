package utils

import (
	"net"
	"net/http"
	"time"
)

// GlobalHTTPClient is shared by evidence downloads.
var GlobalHTTPClient = NewHTTPClient(60 * time.Second)

// NewHTTPClient returns a pooled client with the given overall request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   4, // Discord CDN only
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}
