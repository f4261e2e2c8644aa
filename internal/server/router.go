// Package server exposes the builder over HTTP.
package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"property-builder/builder"
	"property-builder/internal/diagnostic"
	"property-builder/internal/loader"
	"property-builder/internal/pipeline"
	"property-builder/property"
)

// DefaultMaxBodyBytes limits request bodies when Options leaves it unset.
const DefaultMaxBodyBytes int64 = 1 << 20

// Options configures the router.
type Options struct {
	MaxBodyBytes int64
	Builder      builder.Config
}

type buildResponse struct {
	OK          bool                    `json:"ok"`
	Properties  *property.Map           `json:"properties,omitempty"`
	Errors      []string                `json:"errors,omitempty"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics,omitempty"`
}

// NewRouter returns the HTTP handler.
func NewRouter(opts Options, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	r := gin.New()
	r.Use(requestLogger(logger))
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	v1 := r.Group("/v1")
	v1.POST("/build", buildHandler(opts, logger))

	return r
}

func buildHandler(opts Options, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		format, err := requestFormat(c)
		if err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, opts.MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				abortError(c, http.StatusRequestEntityTooLarge, err)
				return
			}

			abortError(c, http.StatusBadRequest, err)

			return
		}

		props, err := loader.Parse(body, format)
		if err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		cfg := opts.Builder

		res, err := pipeline.Run(pipeline.Request{
			Sources:   []*property.Map{props},
			Overrides: c.QueryArray("set"),
			Config:    &cfg,
		}, logger)
		if err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		out := buildResponse{
			OK:          res.OK(),
			Properties:  res.Properties,
			Errors:      res.Errors,
			Diagnostics: res.Diagnostics.All(),
		}

		if !res.OK() {
			c.JSON(http.StatusUnprocessableEntity, out)
			return
		}

		c.JSON(http.StatusOK, out)
	}
}

// requestFormat picks the body format from ?format=, then Content-Type.
// YAML is assumed when neither is given.
func requestFormat(c *gin.Context) (loader.Format, error) {
	if q := c.Query("format"); q != "" {
		return loader.ParseFormat(q)
	}

	ct := c.GetHeader("Content-Type")
	if ct == "" {
		return loader.FormatYAML, nil
	}

	if f, ok := loader.FormatForMediaType(ct); ok {
		return f, nil
	}

	return "", errors.New("unsupported content type " + ct)
}

func abortError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": err.Error()})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
