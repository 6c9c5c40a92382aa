package handler

import (
	"net/http"
	"vortex_api/internal/common"
	"vortex_api/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

// JudgeHandler serves the static judge vocabulary the editor and
// submission views need: supported languages and status descriptions.
type JudgeHandler struct{}

func NewJudgeHandler() *JudgeHandler {
	return &JudgeHandler{}
}

func (h *JudgeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/languages", h.listLanguages)
	r.Get("/statuses", h.listStatuses)
}

func (h *JudgeHandler) listLanguages(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, model.JudgeLanguages)
}

func (h *JudgeHandler) listStatuses(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, model.JudgeStatusDescriptions)
}
