package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/dreamsense/ai"
	"github.com/hrygo/dreamsense/ai/prompt"
	"github.com/hrygo/dreamsense/ai/session"
)

type UserProfile struct {
	Name      string `json:"name,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
}

type PreviousSession struct {
	Message string `json:"message"`
	Stage   string `json:"stage"`
}

type ChatRequest struct {
	UserID           string            `json:"userId"`
	Message          string            `json:"message"`
	Profile          UserProfile       `json:"profile"`
	PreviousSessions []PreviousSession `json:"previousSessions"`
	SessionCount     int               `json:"sessionCount"`
}

type ChatResponse struct {
	Reply   string         `json:"reply"`
	Stage   string         `json:"stage"`
	Hint    string         `json:"hint"`
	Context []session.Turn `json:"context"`
}

type SummarizeRequest struct {
	Turns   []session.Turn `json:"turns"`
	Profile *UserProfile   `json:"profile,omitempty"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

func (s *APIV1Service) handleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if req.UserID == "" || req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId and message are required")
	}

	ctx := c.Request().Context()
	if err := s.generationSemaphore.Acquire(ctx, 1); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "server busy").SetInternal(err)
	}
	defer s.generationSemaphore.Release(1)

	history := s.Store.Read(ctx, req.UserID)

	// The hint always tracks the stage the transition engine resolves
	// for this message, even when the reply itself is a short-circuit.
	stage := s.Interpreter.ResolveStage(history, req.Message)

	previous := make([]prompt.SessionDigest, 0, len(req.PreviousSessions))
	for _, p := range req.PreviousSessions {
		previous = append(previous, prompt.SessionDigest{Message: p.Message, Stage: p.Stage})
	}

	reply, stageKey := s.Interpreter.Interpret(
		ctx,
		ai.Profile{Name: req.Profile.Name, BirthDate: req.Profile.BirthDate},
		req.Message,
		history,
		previous,
		req.SessionCount,
	)

	s.Store.Append(ctx, req.UserID, req.Message, reply)

	return c.JSON(http.StatusOK, ChatResponse{
		Reply:   reply,
		Stage:   stageKey,
		Hint:    stage.Hint,
		Context: s.Store.Read(ctx, req.UserID),
	})
}

func (s *APIV1Service) handleSummarize(c echo.Context) error {
	var req SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	ctx := c.Request().Context()
	if err := s.generationSemaphore.Acquire(ctx, 1); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "server busy").SetInternal(err)
	}
	defer s.generationSemaphore.Release(1)

	name := ""
	if req.Profile != nil {
		name = req.Profile.Name
	}
	summaryText := s.Summarizer.Summarize(ctx, req.Turns, name)

	return c.JSON(http.StatusOK, SummarizeResponse{Summary: summaryText})
}

func (s *APIV1Service) handleClearSession(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	s.Store.Clear(c.Request().Context(), userID)
	return c.NoContent(http.StatusNoContent)
}
