package context

import (
	"net"
	"strings"

	"github.com/labstack/echo/v4"
)

// HeaderXForwardedFor is the proxy chain header consulted for the origin address.
const HeaderXForwardedFor = "X-Forwarded-For"

// OriginIP returns the first X-Forwarded-For entry, or the peer address when the header is absent.
func OriginIP(c echo.Context) string {
	if forwarded := c.Request().Header.Get(HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	remote := c.Request().RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		return host
	}

	return remote
}
