package utils

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ForwardOptions configures a single relay to an upstream service.
type ForwardOptions struct {
	// TargetBase is the upstream base URL including the resource prefix,
	// e.g. "http://user-service-v1:8081/users". The wildcard remainder of
	// the inbound path is appended to it.
	TargetBase string
	Client     *http.Client
	Logger     *zap.Logger
}

// ForwardRequest reproduces the inbound request against the target base URL
// and relays the upstream response verbatim (status, headers, body). The
// gateway is schema-agnostic here: the body is streamed through untouched.
// Any transport-level failure becomes a synthesized 500 with a structured
// error body; the gateway never retries.
func ForwardRequest(c *gin.Context, opts ForwardOptions) {
	targetPath := c.Param("any")

	targetURL := opts.TargetBase + targetPath
	if c.Request.URL.RawQuery != "" {
		targetURL += "?" + c.Request.URL.RawQuery
	}

	opts.Logger.Info("Forwarding request",
		zap.String("method", c.Request.Method),
		zap.String("url", targetURL),
	)

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, c.Request.Body)
	if err != nil {
		opts.Logger.Error("Failed to build forward request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build upstream request"})
		return
	}

	// Copy original headers
	for k, v := range c.Request.Header {
		req.Header[k] = v
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		opts.Logger.Error("Upstream unreachable",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("gateway could not reach upstream service: %v", err),
		})
		return
	}
	defer resp.Body.Close()

	// Relay response headers, skipping CORS (owned by the gateway) and
	// hop-by-hop headers.
	for k, v := range resp.Header {
		if skipHeader(k) {
			continue
		}
		c.Header(k, strings.Join(v, ","))
	}

	// Status must be written after headers
	c.Status(resp.StatusCode)

	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		opts.Logger.Error("Failed to relay response body", zap.Error(err))
	}
}

func skipHeader(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "access-control-") {
		return true
	}
	switch lower {
	case "connection", "keep-alive", "proxy-authenticate", "proxy-authorization",
		"te", "trailers", "transfer-encoding", "upgrade":
		return true
	}
	return false
}
