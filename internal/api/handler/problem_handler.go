package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"vortex_api/internal/api/middleware"
	"vortex_api/internal/app/service"
	"vortex_api/internal/common"
	"vortex_api/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService   *service.ProblemService
	testCaseService  *service.TestCaseService
	authoringService *service.AuthoringService
}

func NewProblemHandler(
	problemService *service.ProblemService,
	testCaseService *service.TestCaseService,
	authoringService *service.AuthoringService,
) *ProblemHandler {
	return &ProblemHandler{
		problemService:   problemService,
		testCaseService:  testCaseService,
		authoringService: authoringService,
	}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	// Public reads; an optional token upgrades visibility for the owner
	// and moderators.
	r.Group(func(public chi.Router) {
		public.Use(middleware.OptionalAuthenticator)
		public.Get("/{problemID}", h.getProblem)
		public.Get("/{problemID}/text", h.getText)
		public.Get("/{problemID}/testcases", h.listTestCases)
	})

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.createProblem)
		authed.Put("/{problemID}/text", h.setText)
		authed.Patch("/{problemID}", h.updateMeta)
		authed.Put("/{problemID}/solution", h.setSolution)
		authed.Put("/{problemID}/published", h.setPublished)
		authed.Delete("/{problemID}", h.deleteProblem)
		authed.Post("/{problemID}/testcases", h.createTestCase)

		authed.Get("/{problemID}/authoring", h.authoringState)
		authed.Post("/{problemID}/authoring/advance", h.authoringAdvance)
		authed.Post("/{problemID}/authoring/previous", h.authoringPrevious)

		authed.Group(func(mod chi.Router) {
			mod.Use(middleware.ModeratorOnly)
			mod.Put("/{problemID}/verified", h.setVerified)
		})
	})
}

func problemIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "problemID"), 10, 64)
}

func (h *ProblemHandler) createProblem(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetRequester(r.Context())
	if requester == nil {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	problem, err := h.problemService.Create(r.Context(), requester.ID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type createProblemResponse struct {
		ProblemID int64  `json:"problem_id"`
		AuthorID  string `json:"author_id"`
	}
	common.RespondWithJSON(w, http.StatusCreated, createProblemResponse{
		ProblemID: problem.ID,
		AuthorID:  problem.AuthorID,
	})
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problemID, err := problemIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	requester := middleware.GetRequester(r.Context())

	problem, err := h.problemService.GetByID(r.Context(), problemID, requester)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) getText(w http.ResponseWriter, r *http.Request) {
	problemID, err := problemIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	requester := middleware.GetRequester(r.Context())

	text, err := h.problemService.GetText(r.Context(), problemID, requester)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type textResponse struct {
		Text string `json:"text"`
	}
	common.RespondWithJSON(w, http.StatusOK, textResponse{Text: text})
}

func (h *ProblemHandler) setText(w http.ResponseWriter, r *http.Request) {
	problemID, err := problemIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	requester := middleware.GetRequester(r.Context())

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := h.problemService.SetText(r.Context(), problemID, requester, req.Text); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *ProblemHandler) updateMeta(w http.ResponseWriter, r *http.Request) {
	problemID, err := problemIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	requester := middleware.GetRequester(r.Context())

	var req service.UpdateProblemMetaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	problem, err := h.problemService.UpdateMeta(r.Context(), problemID, requester, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) setSolution(w http.ResponseWriter, r *http.Request) {
	problemID, err := problemIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	requester := middleware.GetRequester(r.Context())

	var req struct {
		Code     string `json:"code"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := h.problemService.SetSolution(r.Context(), problemID, requester, req.Code, req.Language); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *ProblemHandler) setVerified(w http.ResponseWriter, r *http.Request) {
	problemID, err := problemIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	requester := middleware.GetRequester(r.Context())

	var req struct {
		Verified bool `json:"verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := h.problemService.SetVerified(r.Context(), problemID, requester, req.Verified); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *ProblemHandler) setPublished(w http.ResponseWriter, r *http.Request) {
	problemID, err := problemIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	requester := middleware.GetRequester(r.Context())

	var req struct {
		Published bool `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := h.problemService.SetPublished(r.Context(), problemID, requester, req.Published); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *ProblemHandler) deleteProblem(w http.ResponseWriter, r *http.Request) {
	problemID, err := problemIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	requester := middleware.GetRequester(r.Context())

	if err := h.problemService.Delete(r.Context(), problemID, requester); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *ProblemHandler) createTestCase(w http.ResponseWriter, r *http.Request) {
	problemID, err := problemIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	requester := middleware.GetRequester(r.Context())

	testCase, err := h.testCaseService.Create(r.Context(), problemID, requester)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, testCase)
}

func (h *ProblemHandler) listTestCases(w http.ResponseWriter, r *http.Request) {
	problemID, err := problemIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	requester := middleware.GetRequester(r.Context())

	testCases, err := h.testCaseService.ListByProblem(r.Context(), problemID, requester)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, testCases)
}

func (h *ProblemHandler) authoringState(w http.ResponseWriter, r *http.Request) {
	h.respondAuthoring(w, r, h.authoringService.State)
}

func (h *ProblemHandler) authoringAdvance(w http.ResponseWriter, r *http.Request) {
	h.respondAuthoring(w, r, h.authoringService.Advance)
}

func (h *ProblemHandler) authoringPrevious(w http.ResponseWriter, r *http.Request) {
	h.respondAuthoring(w, r, h.authoringService.Previous)
}

func (h *ProblemHandler) respondAuthoring(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, problemID int64, requester *model.Requester) (*service.AuthoringState, error),
) {
	problemID, err := problemIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	requester := middleware.GetRequester(r.Context())

	state, err := op(r.Context(), problemID, requester)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, state)
}
