package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	requestBodyLogKey  = "log.request.body"
	responseBodyLogKey = "log.response.body"
	maxLoggedBody      = 2048
	redacted           = "redacted"
	binaryPlaceholder  = "binary"
)

// registerLogging emits one structured entry per request with sanitized body
// summaries captured by BodyDump.
func registerLogging(e *echo.Echo, logger *zap.Logger) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			caller := "anonymous"
			if user, ok := CurrentAdmin(c); ok {
				caller = user.ID.String()
			}
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Int64("latency_ms", v.Latency.Milliseconds()),
				zap.String("caller", caller),
			}
			if device, ok := c.Get(contextDeviceKey).(string); ok && device != "" {
				fields = append(fields, zap.String("device_id", device))
			}
			if body := c.Get(requestBodyLogKey); body != nil {
				fields = append(fields, zap.Any("request_body", body))
			}
			if body := c.Get(responseBodyLogKey); body != nil {
				fields = append(fields, zap.Any("response_body", body))
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))

	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/swagger")
		},
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			if summary := summarizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
				c.Set(requestBodyLogKey, summary)
			}
			if summary := summarizeBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
				c.Set(responseBodyLogKey, summary)
			}
		},
	}))
}

// summarizeBody turns a raw body into something safe to log: password-like
// fields are redacted, binary content is replaced and long text is clamped.
func summarizeBody(body []byte, contentType string) interface{} {
	if len(body) == 0 {
		return nil
	}
	mediaType, params, _ := mime.ParseMediaType(strings.TrimSpace(contentType))

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		return summarizeMultipart(body, params["boundary"])
	case mediaType == "application/x-www-form-urlencoded":
		if values, err := url.ParseQuery(string(body)); err == nil {
			fields := make(map[string]interface{}, len(values))
			for key, vals := range values {
				fields[key] = redactValue(key, strings.Join(vals, ","))
			}
			return clampJSON(fields)
		}
	}

	var data interface{}
	if json.Unmarshal(body, &data) == nil {
		return clampJSON(redactJSON(data, ""))
	}
	if isBinary(body) {
		return binaryPlaceholder
	}
	if strings.Contains(strings.ToLower(string(body)), "password") {
		return redacted
	}
	return clamp(string(body))
}

func redactJSON(value interface{}, key string) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = redactJSON(item, k)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = redactJSON(item, key)
		}
		return out
	case string:
		return redactValue(key, v)
	}
	if isSensitive(key) {
		return redacted
	}
	return value
}

func redactValue(key, value string) string {
	switch {
	case isSensitive(key):
		return redacted
	case isBinary([]byte(value)):
		return binaryPlaceholder
	}
	return clamp(value)
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "password") || strings.Contains(k, "token")
}

func summarizeMultipart(body []byte, boundary string) interface{} {
	if boundary == "" {
		return binaryPlaceholder
	}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	fields := map[string]interface{}{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return binaryPlaceholder
		}
		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}
		if part.FileName() != "" {
			fields[name] = binaryPlaceholder
		} else if data, err := io.ReadAll(part); err == nil {
			fields[name] = redactValue(name, string(data))
		}
		_ = part.Close()
	}
	if len(fields) == 0 {
		return binaryPlaceholder
	}
	return clampJSON(fields)
}

// clampJSON keeps small values as structured data and replaces oversized ones
// with a truncated string preview.
func clampJSON(value interface{}) interface{} {
	buf, err := json.Marshal(value)
	if err != nil || len(buf) <= maxLoggedBody {
		return value
	}
	return map[string]interface{}{
		"_truncated": true,
		"_preview":   clamp(string(buf)),
	}
}

func isBinary(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clamp(value string) string {
	if len(value) <= maxLoggedBody {
		return value
	}
	truncated := value[:maxLoggedBody]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "...(truncated)"
}
