package handler

import (
	"fmt"
	"net/http"
	"vortex_api/internal/api/middleware"
	"vortex_api/internal/app/service"
	"vortex_api/internal/app/service/exporter"
	"vortex_api/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	authService    *service.AuthService
	problemService *service.ProblemService
}

func NewUserHandler(authService *service.AuthService, problemService *service.ProblemService) *UserHandler {
	return &UserHandler{authService: authService, problemService: problemService}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{userID}", h.getUser)
	r.Get("/{userID}/problems", h.listProblems)
	r.Get("/{userID}/problems/export", h.exportProblems)
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

// listProblems backs the dashboard table: the owner (or a moderator)
// sees everything, visitors only see verified, published rows.
func (h *UserHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "userID")
	requester := middleware.GetRequester(r.Context())

	problems, err := h.problemService.ListByOwner(r.Context(), ownerID, requester)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}

func (h *UserHandler) exportProblems(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "userID")
	requester := middleware.GetRequester(r.Context())

	format := exporter.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = exporter.FormatCSV
	}
	exp, err := exporter.New(format)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	problems, err := h.problemService.ListByOwner(r.Context(), ownerID, requester)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", exp.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="problems-%s.%s"`, ownerID, exp.FileExtension()))
	// Headers are already out; a failed write cannot change the status.
	_ = exp.Export(w, problems)
}
