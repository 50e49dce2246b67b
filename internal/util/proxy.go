// Package util holds small helpers shared by the hand-rolled HTTP clients.
package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the transport proxy selector for an HTTP client.
// Explicitly configured proxies take precedence per scheme; with none
// configured the standard proxy environment variables apply.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
