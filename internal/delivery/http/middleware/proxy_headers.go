package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequestInfo describes the hop that is forwarding the request.
type RequestInfo struct {
	IP       string // Network address of the immediate client.
	Host     string // Host (and port) the client asked for.
	Protocol string // Scheme of the incoming request, "http" or "https".
}

// SetupProxyHeaders appends the current hop to X-Forwarded-For and
// X-Forwarded-Host. Values set by upstream proxies are kept, so the headers
// hold the full chain, e.g. "192.168.2.34, 192.168.1.42".
func SetupProxyHeaders(header http.Header, info RequestInfo) {
	appendForwarded(header, echo.HeaderXForwardedFor, info.IP)
	appendForwarded(header, "X-Forwarded-Host", info.Host)
}

func appendForwarded(header http.Header, key, value string) {
	existing := strings.Join(header.Values(key), ", ")
	if existing == "" {
		header.Set(key, value)

		return
	}

	header.Set(key, existing+", "+value)
}

// RequestInfoFrom extracts the hop information of r.
func RequestInfoFrom(r *http.Request) RequestInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}

	protocol := "http"
	if r.TLS != nil {
		protocol = "https"
	}

	return RequestInfo{
		IP:       ip,
		Host:     r.Host,
		Protocol: protocol,
	}
}

// ProxyHeaders is an echo middleware that records the current hop in the
// forwarding headers of every incoming request before it is handled.
func ProxyHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		SetupProxyHeaders(req.Header, RequestInfoFrom(req))

		return next(c)
	}
}
