package websocket

import (
	"net"
	"net/url"
	"strings"
)

// DefaultPath is the server's websocket endpoint
const DefaultPath = "/ws"

// Target identifies the server endpoint and room
type Target struct {
	Host string
	Code string
	Path string
}

// URL returns the endpoint URL with the room code as a query parameter.
func (t Target) URL() string {
	path := t.Path
	if path == "" {
		path = DefaultPath
	}

	scheme := "wss"
	if IsLocalHost(t.Host) {
		scheme = "ws"
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     t.Host,
		Path:     path,
		RawQuery: url.Values{"code": {t.Code}}.Encode(),
	}
	return u.String()
}

// IsLocalHost reports whether host (with or without a port) names the
// local machine.
func IsLocalHost(host string) bool {
	name := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		name = h
	}
	name = strings.Trim(strings.ToLower(name), "[]")

	switch name {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
