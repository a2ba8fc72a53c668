package tool

import (
	"net/http"
	"time"
)

var DefaultTimeout = 30 * time.Second

// NewHTTPClient creates a pooled HTTP client for collaborator API calls.
// Deadlines come from per-request contexts; there is no client-level Timeout
// because it would also cap the body read and cut off large artifact
// downloads. ResponseHeaderTimeout still bounds a collaborator that accepts
// the connection and then goes silent.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: DefaultTimeout,
	}
	return &http.Client{
		Transport: transport,
	}
}
