package style

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/adaptive-assistant/internal/model/chat"
	"github.com/zhouzirui/adaptive-assistant/pkg/utils"
)

// Handler serves the options of the communication style selector.
type Handler struct{}

// New creates the style handler.
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes registers style routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/styles", h.handleListStyles)
}

func (h *Handler) handleListStyles(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"styles":  chat.Styles(),
		"default": chat.DefaultProfile().CommunicationStyle,
	})
}
