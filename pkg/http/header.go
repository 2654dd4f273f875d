package http

import (
	"net"
	"net/http"
	"strings"

	"github.com/muhlemmer/httpforwarded"
	"golang.org/x/text/language"
)

const (
	HeaderAppID       = "x-authing-app-id"
	HeaderUserPoolID  = "x-authing-userpool-id"
	HeaderSDKVersion  = "x-authing-sdk-version"
	HeaderLang        = "x-authing-lang"
	HeaderRequestFrom = "x-authing-request-from"
	HeaderRealIP      = "x-real-ip"

	RequestFromSDK = "sdk"
)

// DefaultLang is sent as `x-authing-lang` when a client configures no language.
var DefaultLang = language.MustParse("zh-CN")

// SDKVersion is sent with every request as `x-authing-sdk-version`.
const SDKVersion = "go:3.0.0"

// SDKHeaders is the header set added to every call made by a client.
// Empty values are not sent.
type SDKHeaders struct {
	AppID      string
	UserPoolID string
	Lang       language.Tag
	RealIP     string
}

// Apply sets the headers on req.
// A client IP stored on the request context with WithRealIP wins over h.RealIP.
func (h SDKHeaders) Apply(req *http.Request) {
	setIfNotEmpty(req.Header, HeaderAppID, h.AppID)
	setIfNotEmpty(req.Header, HeaderUserPoolID, h.UserPoolID)
	req.Header.Set(HeaderSDKVersion, SDKVersion)
	req.Header.Set(HeaderRequestFrom, RequestFromSDK)
	if h.Lang != language.Und {
		req.Header.Set(HeaderLang, h.Lang.String())
	}
	ip := h.RealIP
	if ctxIP, ok := RealIPFromContext(req.Context()); ok {
		ip = ctxIP
	}
	setIfNotEmpty(req.Header, HeaderRealIP, ip)
}

func setIfNotEmpty(header http.Header, key, value string) {
	if value != "" {
		header.Set(key, value)
	}
}

// RealIP returns the IP of the end user behind r.
// The `for` parameter of a Forwarded header is preferred,
// followed by the first X-Forwarded-For entry and X-Real-Ip.
// RemoteAddr is used when no proxy header is present.
func RealIP(r *http.Request) string {
	if fwd, err := httpforwarded.ParseFromRequest(r); err == nil {
		if values := fwd["for"]; len(values) > 0 {
			if ip := cleanIP(values[0]); ip != "" {
				return ip
			}
		}
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := cleanIP(first); ip != "" {
			return ip
		}
	}
	if ip := cleanIP(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}
	return cleanIP(r.RemoteAddr)
}

// cleanIP strips quotes, brackets and ports of a node identifier.
func cleanIP(node string) string {
	node = strings.Trim(strings.TrimSpace(node), `"`)
	if host, _, err := net.SplitHostPort(node); err == nil {
		return host
	}
	return strings.TrimSuffix(strings.TrimPrefix(node, "["), "]")
}
