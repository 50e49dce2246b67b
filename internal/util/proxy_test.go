package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc_ExplicitProxies(t *testing.T) {
	proxyFunc := NewProxyFunc("http://proxy-a:8080", "http://proxy-b:8443", "")

	httpsReq, _ := http.NewRequest(http.MethodGet, "https://api.example.com/search", nil)
	u, err := proxyFunc(httpsReq)
	if err != nil {
		t.Fatalf("proxyFunc failed: %v", err)
	}
	if u.Host != "proxy-b:8443" {
		t.Errorf("Expected HTTPS proxy, got %s", u.Host)
	}

	httpReq, _ := http.NewRequest(http.MethodGet, "http://api.example.com/search", nil)
	u, err = proxyFunc(httpReq)
	if err != nil {
		t.Fatalf("proxyFunc failed: %v", err)
	}
	if u.Host != "proxy-a:8080" {
		t.Errorf("Expected HTTP proxy, got %s", u.Host)
	}
}

func TestNewProxyFunc_HTTPProxyCoversHTTPS(t *testing.T) {
	proxyFunc := NewProxyFunc("http://proxy-a:8080", "", "")

	httpsReq, _ := http.NewRequest(http.MethodGet, "https://api.example.com/search", nil)
	u, err := proxyFunc(httpsReq)
	if err != nil {
		t.Fatalf("proxyFunc failed: %v", err)
	}
	if u == nil || u.Host != "proxy-a:8080" {
		t.Errorf("Expected HTTP proxy fallback for HTTPS request, got %v", u)
	}
}
