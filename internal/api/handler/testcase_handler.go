package handler

import (
	"encoding/json"
	"net/http"
	"vortex_api/internal/api/middleware"
	"vortex_api/internal/app/service"
	"vortex_api/internal/common"

	"github.com/go-chi/chi/v5"
)

type TestCaseHandler struct {
	testCaseService *service.TestCaseService
}

func NewTestCaseHandler(testCaseService *service.TestCaseService) *TestCaseHandler {
	return &TestCaseHandler{testCaseService: testCaseService}
}

func (h *TestCaseHandler) RegisterRoutes(r chi.Router) {
	r.Put("/{testCaseID}", h.updateTestCase)
	r.Delete("/{testCaseID}", h.deleteTestCase)
}

func (h *TestCaseHandler) updateTestCase(w http.ResponseWriter, r *http.Request) {
	testCaseID := chi.URLParam(r, "testCaseID")
	requester := middleware.GetRequester(r.Context())

	var req struct {
		Input  string `json:"input"`
		Output string `json:"output"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	testCase, err := h.testCaseService.Update(r.Context(), testCaseID, requester, req.Input, req.Output)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, testCase)
}

func (h *TestCaseHandler) deleteTestCase(w http.ResponseWriter, r *http.Request) {
	testCaseID := chi.URLParam(r, "testCaseID")
	requester := middleware.GetRequester(r.Context())

	if err := h.testCaseService.Delete(r.Context(), testCaseID, requester); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
