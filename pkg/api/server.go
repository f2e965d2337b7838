// Package api provides the REST API server for k4tool
package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/james-see/k4tool/pkg/config"
	"github.com/james-see/k4tool/pkg/k4"
	"github.com/james-see/k4tool/pkg/listing"
	"github.com/james-see/k4tool/pkg/logging"
	"github.com/james-see/k4tool/pkg/sysex"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title K4 Tool API
// @version 1.0
// @description API for listing Kawai K4 SysEx banks and the K4 wave table
// @host localhost:8080
// @BasePath /api/v1

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

const shutdownTimeout = 5 * time.Second

// Server serves the REST API. Handlers only read the wave names and config,
// so one Server is safe for concurrent requests.
type Server struct {
	cfg    config.Config
	names  k4.WaveNames
	log    zerolog.Logger
	engine *gin.Engine
}

// NewServer builds the router
func NewServer(cfg config.Config, names k4.WaveNames, log zerolog.Logger) *Server {
	if names == nil {
		names = k4.WaveNames{}
	}
	s := &Server{cfg: cfg, names: names, log: log}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(s.logMiddleware())
	r.Use(corsMiddleware())

	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/waves", s.listWaves)
		v1.GET("/waves/:number", s.getWave)
		v1.GET("/formats", listFormats)
		v1.POST("/banks/list", s.listBank)
		v1.POST("/banks/identify", s.identifyBank)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.engine = r
	return s
}

// Handler returns the http.Handler serving the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("api server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info().Msg("api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func (s *Server) logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logging.FromContext(c.Request.Context(), s.log)
		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "k4tool",
	})
}

// listFormats godoc
// @Summary List output formats
// @Description Returns the formats accepted by the bank listing endpoint
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": listing.SupportedFormats()})
}

// listWaves godoc
// @Summary List waves
// @Description Returns all 256 K4 wave numbers with their names when configured
// @Tags waves
// @Produce json
// @Success 200 {object} map[string][]k4.Wave
// @Router /waves [get]
func (s *Server) listWaves(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"waves": listing.Waves(s.names)})
}

// getWave godoc
// @Summary Get one wave
// @Description Returns a single wave by number
// @Tags waves
// @Produce json
// @Param number path int true "Wave number (1-256)"
// @Success 200 {object} k4.Wave
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /waves/{number} [get]
func (s *Server) getWave(c *gin.Context) {
	raw, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wave number must be an integer"})
		return
	}
	n, err := k4.NewWaveNumber(raw)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.names.Wave(n))
}

// listBank godoc
// @Summary List a bank
// @Description Upload a K4 bank (.syx) and receive its patch listing
// @Tags banks
// @Accept multipart/form-data
// @Produce json,html,plain,yaml
// @Param file formData file true "K4 bank file"
// @Param format query string false "Output format: text, html, json, yaml (default: json)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /banks/list [post]
func (s *Server) listBank(c *gin.Context) {
	format, err := listing.ParseFormat(c.DefaultQuery("format", string(listing.FormatJSON)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filename, data, ok := s.readUpload(c)
	if !ok {
		return
	}

	bank, err := k4.ParseBank(data)
	if err != nil {
		s.bankError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := listing.Render(&buf, listing.FromBank(filename, bank), format); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// identifyBank godoc
// @Summary Identify a SysEx file
// @Description Upload a SysEx file and receive the manufacturer and content of each message
// @Tags banks
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "SysEx file"
// @Success 200 {object} listing.Inventory
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /banks/identify [post]
func (s *Server) identifyBank(c *gin.Context) {
	filename, data, ok := s.readUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, listing.Identify(filename, data))
}

// readUpload reads the multipart "file" field, writing the error response
// itself when it fails
func (s *Server) readUpload(c *gin.Context) (string, []byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return "", nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return "", nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return "", nil, false
	}
	return header.Filename, data, true
}

func (s *Server) bankError(c *gin.Context, err error) {
	msg := "Bank parse failed"
	var sizeErr *sysex.SizeError
	if errors.As(err, &sizeErr) {
		msg = "Not a bank file"
	}
	log := logging.FromContext(c.Request.Context(), s.log)
	log.Debug().Err(err).Msg("rejected bank upload")
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg, "cause": err.Error()})
}
