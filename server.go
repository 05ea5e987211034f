package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"i4.energy/across/nbiot/at"
	"i4.energy/across/nbiot/modem"
)

// shieldAPI is the part of *modem.Shield exposed over HTTP
type shieldAPI interface {
	IMEI(ctx context.Context) (string, error)
	FirmwareInfo(ctx context.Context) (string, error)
	HardwareInfo(ctx context.Context) (string, error)
	AttachNetwork(ctx context.Context) (string, error)
	StartUDPService(ctx context.Context) (string, error)
	SendDataUDP(ctx context.Context, payload []byte) (string, error)
	SendATComm(ctx context.Context, command, desired string) (string, error)
	Settings() modem.ShieldConfig
	SetIPAddress(ip string)
	SetPort(port string)
	SetDomainName(domain string)
	Metrics() modem.MetricsSnapshot
}

// Server handles incoming HTTP requests for interacting with the
// configured shield instance
type Server struct {
	logger *zap.Logger
	shield shieldAPI
	router *gin.Engine

	// socketMu guards socketOpen, the UDP socket is created on first use
	socketMu   sync.Mutex
	socketOpen bool
}

// NewServer creates the HTTP gateway in front of shield
func NewServer(shield shieldAPI, logger *zap.Logger) *Server {
	s := &Server{
		logger: logger,
		shield: shield,
		router: gin.New(),
	}

	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/info", s.handleInfo)
	s.router.GET("/target", s.handleGetTarget)
	s.router.PUT("/target", s.handlePutTarget)
	s.router.GET("/metrics", s.handleMetrics)
	s.router.POST("/network/attach", s.handleAttach)
	s.router.POST("/udp", s.handleUDP)
	s.router.POST("/at", s.handleAT)
	return s
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := zapcore.InfoLevel
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		} else if c.Writer.Status() >= http.StatusBadRequest {
			level = zapcore.WarnLevel
		}
		if ce := s.logger.Check(level, "API request"); ce != nil {
			ce.Write(
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Int("status_code", c.Writer.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		}
	}
}

func (s *Server) sendError(c *gin.Context, message string, statusCode int) {
	if message == "" {
		c.Status(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	c.JSON(statusCode, ErrorResponse{Message: message})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) handleInfo(c *gin.Context) {
	ctx := c.Request.Context()

	type InfoResponse struct {
		IMEI     string `json:"imei"`
		Firmware string `json:"firmware"`
		Hardware string `json:"hardware"`
	}

	resp, err := s.shield.IMEI(ctx)
	if err != nil {
		s.fail(c, "Failed to query IMEI", err)
		return
	}
	imei, _ := at.ParseIMEI(resp)

	firmware, err := s.shield.FirmwareInfo(ctx)
	if err != nil {
		s.fail(c, "Failed to query firmware", err)
		return
	}
	hardware, err := s.shield.HardwareInfo(ctx)
	if err != nil {
		s.fail(c, "Failed to query hardware", err)
		return
	}

	c.JSON(http.StatusOK, InfoResponse{
		IMEI:     imei,
		Firmware: infoLine(firmware),
		Hardware: infoLine(hardware),
	})
}

// TargetRequest updates the UDP destination. Empty fields are left unchanged.
type TargetRequest struct {
	IPAddress  string `json:"ip"`
	Port       string `json:"port"`
	DomainName string `json:"domain"`
}

func (s *Server) handleGetTarget(c *gin.Context) {
	c.JSON(http.StatusOK, s.shield.Settings())
}

func (s *Server) handlePutTarget(c *gin.Context) {
	var req TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.sendError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if req.IPAddress != "" {
		s.shield.SetIPAddress(req.IPAddress)
	}
	if req.Port != "" {
		if req.Port != s.shield.Settings().Port {
			s.resetSocket()
		}
		s.shield.SetPort(req.Port)
	}
	if req.DomainName != "" {
		s.shield.SetDomainName(req.DomainName)
	}

	s.logger.Info("UDP target updated", zap.Any("target", s.shield.Settings()))
	c.JSON(http.StatusOK, s.shield.Settings())
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.shield.Metrics())
}

func (s *Server) handleAttach(c *gin.Context) {
	resp, err := s.shield.AttachNetwork(c.Request.Context())
	if err != nil {
		s.fail(c, "Failed to attach to network", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": resp})
}

func (s *Server) handleUDP(c *gin.Context) {
	type UDPRequest struct {
		Payload string `json:"payload" binding:"required"`
	}

	var req UDPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.sendError(c, err.Error(), http.StatusBadRequest)
		return
	}

	target := s.shield.Settings()
	if target.IPAddress == "" || target.Port == "" {
		s.sendError(c, "UDP target is not configured", http.StatusConflict)
		return
	}

	ctx := c.Request.Context()
	if err := s.ensureSocket(ctx); err != nil {
		s.fail(c, "Failed to create UDP socket", err)
		return
	}

	resp, err := s.shield.SendDataUDP(ctx, []byte(req.Payload))
	if err != nil {
		s.fail(c, "Failed to send datagram", err)
		return
	}

	s.logger.Info("Datagram sent",
		zap.String("ip", target.IPAddress),
		zap.String("port", target.Port),
		zap.Int("payload_length", len(req.Payload)),
	)
	c.JSON(http.StatusOK, gin.H{"response": resp})
}

func (s *Server) handleAT(c *gin.Context) {
	type ATRequest struct {
		Command string `json:"command" binding:"required"`
		Expect  string `json:"expect"`
	}

	var req ATRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.sendError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Expect == "" {
		req.Expect = at.TokenOK
	}

	resp, err := s.shield.SendATComm(c.Request.Context(), req.Command, req.Expect)
	if err != nil {
		s.fail(c, "AT command failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"response": resp,
		"result":   at.FinalResult(resp),
	})
}

// ensureSocket creates the UDP socket unless an earlier request did.
func (s *Server) ensureSocket(ctx context.Context) error {
	s.socketMu.Lock()
	defer s.socketMu.Unlock()

	if s.socketOpen {
		return nil
	}
	if _, err := s.shield.StartUDPService(ctx); err != nil {
		return err
	}
	s.socketOpen = true
	return nil
}

func (s *Server) resetSocket() {
	s.socketMu.Lock()
	defer s.socketMu.Unlock()
	s.socketOpen = false
}

// fail maps a shield error onto an HTTP status.
func (s *Server) fail(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, modem.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, modem.ErrAlreadyClosed):
		status = http.StatusServiceUnavailable
	}
	s.sendError(c, err.Error(), status)
}

// infoLine returns the first informational line of a reply.
func infoLine(resp string) string {
	for _, line := range at.Lines(resp) {
		if at.Classify(line) == at.TypeData {
			return line
		}
	}
	return ""
}
