package http

import (
	"net/http"
	"os"
	"sync"

	"github.com/ghodss/yaml"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/util"
)

// apiDocs converts the hand-written OpenAPI YAML to JSON on first use and
// keeps the result. A failed load is retried on the next request.
type apiDocs struct {
	path   string
	logger *zap.Logger

	mu   sync.Mutex
	json []byte
}

func (d *apiDocs) load() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.json != nil {
		return d.json, nil
	}
	raw, err := os.ReadFile(d.path)
	if err != nil {
		return nil, err
	}
	converted, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, err
	}
	d.json = converted
	return d.json, nil
}

// RegisterSwagger serves the OpenAPI document at /swagger/doc.json and the UI
// under /swagger.
func RegisterSwagger(e *echo.Echo, specPath string, logger *zap.Logger) {
	docs := &apiDocs{path: specPath, logger: logger}
	e.GET("/swagger/doc.json", func(c echo.Context) error {
		body, err := docs.load()
		if err != nil {
			docs.logger.Error("load api docs", zap.String("path", docs.path), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, util.Error("api documentation unavailable"))
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, body)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
