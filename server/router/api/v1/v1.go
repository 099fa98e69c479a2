package v1

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/dreamsense/ai"
	"github.com/hrygo/dreamsense/ai/session"
	"github.com/hrygo/dreamsense/ai/summary"
)

// maxConcurrentGenerations caps in-flight generation-backed handlers
// so a slow upstream cannot pile up goroutines.
const maxConcurrentGenerations = 16

// APIV1Service wires the dialog core to the HTTP surface.
type APIV1Service struct {
	Interpreter *ai.Interpreter
	Store       session.Store
	Summarizer  summary.Summarizer

	generationSemaphore *semaphore.Weighted
}

func NewAPIV1Service(interpreter *ai.Interpreter, store session.Store, summarizer summary.Summarizer) *APIV1Service {
	return &APIV1Service{
		Interpreter:         interpreter,
		Store:               store,
		Summarizer:          summarizer,
		generationSemaphore: semaphore.NewWeighted(maxConcurrentGenerations),
	}
}

// Register mounts the v1 routes.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	group := echoServer.Group("/api/v1")
	group.POST("/chat", s.handleChat)
	group.POST("/summarize", s.handleSummarize)
	group.DELETE("/sessions/:userId", s.handleClearSession)
}
