// Package handler contiene los endpoints HTTP de administración del servicio.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/edicionesgcc/poblar-ventas/internal/middleware"
	"github.com/edicionesgcc/poblar-ventas/internal/service"
)

// Runner define el contrato de la lógica de negocio que disparan los endpoints.
type Runner interface {
	Run(ctx context.Context) (*service.RunReport, error)
}

// Handler implementa los endpoints HTTP de administración.
type Handler struct {
	runner         Runner
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler crea el manejador de requests HTTP.
func NewHandler(runner Runner, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		runner:         runner,
		logger:         logger,
		authMiddleware: auth,
	}
}

// TriggerRun dispara una corrida de procesamiento y devuelve su resumen.
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.Run(r.Context())
	if err != nil {
		h.logger.Error("run aborted", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.logger.Error("encode report error", zap.Error(err))
	}
}

// Health responde 200 mientras el proceso está vivo.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
