package ws

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"manygolf/internal/auth"
	"manygolf/internal/domain"
	"manygolf/internal/ports"
	"manygolf/internal/protocol"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// ServerConfig wires the HTTP surface of the standalone server.
type ServerConfig struct {
	Room         *Room
	Tokens       *auth.TokenService
	Codec        protocol.Codec
	Leaderboard  ports.LeaderboardPort // optional
	AllowOrigins []string              // empty allows any origin
	Logger       *zap.Logger
}

// Server exposes session issuing, the game websocket and read-only stats.
type Server struct {
	room        *Room
	tokens      *auth.TokenService
	codec       protocol.Codec
	leaderboard ports.LeaderboardPort
	upgrader    websocket.Upgrader
	router      *gin.Engine
	log         *zap.Logger
}

type sessionRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Codec == nil {
		cfg.Codec = protocol.JSONCodec{}
	}
	s := &Server{
		room:        cfg.Room,
		tokens:      cfg.Tokens,
		codec:       cfg.Codec,
		leaderboard: cfg.Leaderboard,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowOrigins),
		},
		log: cfg.Logger.Named("http"),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.log))
	router.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	router.GET("/healthz", s.healthz)
	router.POST("/session", s.issueSession)
	router.GET("/ws", s.serveWS)
	if s.leaderboard != nil {
		router.GET("/leaderboard", s.topPlayers)
	}
	s.router = router
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) issueSession(c *gin.Context) {
	var req sessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	claims, token, err := s.tokens.Issue(req.Name)
	if err != nil {
		s.log.Error("failed to issue session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue session"})
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: token, PlayerID: claims.PlayerID, Name: claims.Name})
}

func (s *Server) serveWS(c *gin.Context) {
	claims, err := s.tokens.Verify(bearerToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(claims.PlayerID, claims.Name, conn, s.codec, s.log)
	go client.writePump()

	if err := s.room.Join(c.Request.Context(), client.id, client.name, client); err != nil {
		s.log.Info("join refused", zap.String("player_id", client.id), zap.Error(err))
		client.Close()
		return
	}
	client.readPump(s.room, s.codec)
}

func (s *Server) topPlayers(c *gin.Context) {
	limit := defaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	standings, err := s.leaderboard.TopPlayers(c.Request.Context(), limit)
	if err != nil {
		s.log.Error("failed to read leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": standings})
}

// bearerToken reads the token from the Authorization header or, for
// browsers that cannot set headers on websocket requests, the query string.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Query("token")
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}

func vecFromWire(v [2]float64) domain.Vec2 {
	return domain.Vec2{X: v[0], Y: v[1]}
}
