package feed

import "net/http"

// default request shape for publisher endpoints
const (
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/124.0.0.0 Safari/537.36"
	MobileUserAgent = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/124.0.0.0 Mobile Safari/537.36"
)

// DefaultHeaders returns browser-like headers sent with every publisher request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      DefaultUserAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Encoding": "gzip, deflate, br",
		"Accept-Language": "en-US,en;q=0.5",
	}
}

// applyHeaders sets defaults first, then per-request overrides
func applyHeaders(req *http.Request, overrides map[string]string) {
	for k, v := range DefaultHeaders() {
		req.Header.Set(k, v)
	}
	for k, v := range overrides {
		req.Header.Set(k, v)
	}
}
