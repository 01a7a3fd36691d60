package server

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"
	gqlhandler "github.com/graphql-go/handler"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"artistconnection/internal/graph"
	"artistconnection/internal/service"
)

type Server struct {
	schema graphql.Schema
	tokens *service.TokenManager
	db     *sql.DB
}

func NewServer(schema graphql.Schema, tokens *service.TokenManager, db *sql.DB) *Server {
	return &Server{
		schema: schema,
		tokens: tokens,
		db:     db,
	}
}

func (s *Server) HealthCheck(c echo.Context) error {
	if err := s.db.Ping(); err != nil {
		log.WithField("error", err).Error("Health check failed: database is down")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  "database connection error",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// AuthMiddleware verifies a Bearer token when present and attaches the
// identity to the request context. Requests without a valid token pass
// through unauthenticated; resolvers enforce their own guards.
func (s *Server) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimPrefix(header, "Bearer ")
			userID, role, err := s.tokens.Verify(token)
			if err != nil {
				log.WithError(err).Debug("Rejected invalid token")
			} else {
				req := c.Request()
				c.SetRequest(req.WithContext(graph.WithAuth(req.Context(), userID, role)))
			}
		}
		return next(c)
	}
}

// Register mounts the health check and the GraphQL endpoint.
func (s *Server) Register(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/health", s.HealthCheck)

	gql := gqlhandler.New(&gqlhandler.Config{
		Schema:   &s.schema,
		Pretty:   true,
		GraphiQL: true,
	})
	e.Any("/graphql", echo.WrapHandler(gql), s.AuthMiddleware)
}
