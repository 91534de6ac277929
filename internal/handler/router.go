package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/adaptive-assistant/internal/handler/chat"
	"github.com/zhouzirui/adaptive-assistant/internal/handler/realtime"
	"github.com/zhouzirui/adaptive-assistant/internal/handler/style"
	middlewarePkg "github.com/zhouzirui/adaptive-assistant/internal/middleware"
	"github.com/zhouzirui/adaptive-assistant/internal/service/assistant"
	chatService "github.com/zhouzirui/adaptive-assistant/internal/service/chat"
	"github.com/zhouzirui/adaptive-assistant/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, assistantSvc *assistant.Service, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	styleHandler := style.New()
	chatHandler := chat.New(chatSvc, assistantSvc)
	wsHandler := realtime.NewWebSocketHandler(chatSvc, assistantSvc, logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		styleHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
