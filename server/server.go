package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/dreamsense/ai"
	"github.com/hrygo/dreamsense/ai/gigachat"
	"github.com/hrygo/dreamsense/ai/session"
	"github.com/hrygo/dreamsense/ai/summary"
	"github.com/hrygo/dreamsense/internal/profile"
	apiv1 "github.com/hrygo/dreamsense/server/router/api/v1"
)

// Server hosts the dialog HTTP API.
type Server struct {
	echoServer *echo.Echo
	profile    *profile.Profile
}

func NewServer(ctx context.Context, instanceProfile *profile.Profile) (*Server, error) {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	if instanceProfile.IsDev() {
		echoServer.Use(middleware.Logger())
	}

	client := gigachat.NewClient(gigachat.Config{
		Key:          instanceProfile.GigaChatKey,
		AuthEndpoint: instanceProfile.GigaChatAuthEndpoint,
		Endpoint:     instanceProfile.GigaChatEndpoint,
		Scope:        instanceProfile.GigaChatScope,
		Temperature:  float32(instanceProfile.Temperature),
	})
	store := session.New(ctx, instanceProfile.RedisURL, instanceProfile.MaxContextTurns)

	apiService := apiv1.NewAPIV1Service(
		ai.NewInterpreter(client),
		store,
		summary.NewSummarizer(client),
	)
	apiService.Register(echoServer)

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	return &Server{
		echoServer: echoServer,
		profile:    instanceProfile,
	}, nil
}

func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
	slog.Info("server: starting", "address", address, "mode", s.profile.Mode)
	return s.echoServer.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("server: failed to shut down gracefully", "error", err)
	}
	slog.Info("server: stopped")
}
