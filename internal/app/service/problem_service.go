package service

import (
	"context"
	"errors"
	"vortex_api/internal/common"
	"vortex_api/internal/domain/model"
	"vortex_api/internal/domain/repository"
	"vortex_api/internal/logger"
	"vortex_api/internal/platform/cache"

	"github.com/gosimple/slug"
)

// ListingCache caches the owner-or-moderator dashboard view per owner.
// Implemented by cache.ProblemListCache; any mutation of an owner's
// problems must invalidate that owner's entry.
type ListingCache interface {
	Get(ctx context.Context, ownerID string) ([]model.Problem, bool)
	Set(ctx context.Context, ownerID string, problems []model.Problem) error
	Invalidate(ctx context.Context, ownerID string) error
}

var _ ListingCache = (*cache.ProblemListCache)(nil)

type ProblemService struct {
	problemRepo     repository.ProblemRepository
	userRepo        repository.UserRepository
	listCache       ListingCache
	maxUserProblems int
	log             *logger.Logger
}

func NewProblemService(
	problemRepo repository.ProblemRepository,
	userRepo repository.UserRepository,
	listCache ListingCache,
	maxUserProblems int,
	log *logger.Logger,
) *ProblemService {
	return &ProblemService{
		problemRepo:     problemRepo,
		userRepo:        userRepo,
		listCache:       listCache,
		maxUserProblems: maxUserProblems,
		log:             log,
	}
}

// canManage reports whether the requester may edit the problem: its
// owner, or anyone holding moderator-or-above.
func canManage(p *model.Problem, requester *model.Requester) bool {
	return requester.Is(p.AuthorID) || requester.CanModerate()
}

// Create persists a new problem owned by the caller, seeded with the
// default placeholder statement and limits.
func (s *ProblemService) Create(ctx context.Context, callerID string) (*model.Problem, error) {
	// Fail-safe: every authenticated caller should exist in the database.
	if _, err := s.userRepo.FindByID(ctx, callerID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("user does not exist: %w", common.ErrUnauthenticated)
		}
		return nil, common.Errorf("failed to resolve caller: %w", err)
	}

	problem := &model.Problem{
		AuthorID:      callerID,
		Title:         model.DefaultProblemTitle,
		Slug:          slug.Make(model.DefaultProblemTitle),
		Text:          model.DefaultProblemText,
		TimeLimitMs:   model.DefaultTimeLimitMs,
		MemoryLimitKb: model.DefaultMemoryLimitKb,
		AuthoringStep: model.FirstAuthoringStep,
	}

	if err := s.problemRepo.CreateWithQuota(ctx, problem, s.maxUserProblems); err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, callerID)
	return problem, nil
}

// ListByOwner returns the owner's problems. The owner and moderators see
// every row; everyone else only sees verified, published problems.
func (s *ProblemService) ListByOwner(ctx context.Context, ownerID string, requester *model.Requester) ([]model.Problem, error) {
	fullView := requester.Is(ownerID) || requester.CanModerate()
	if !fullView {
		return s.problemRepo.ListByAuthor(ctx, ownerID, true)
	}

	if problems, ok := s.listCache.Get(ctx, ownerID); ok {
		return problems, nil
	}
	problems, err := s.problemRepo.ListByAuthor(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	if err := s.listCache.Set(ctx, ownerID, problems); err != nil {
		s.log.Warn("failed to cache problem listing", "owner_id", ownerID, "error", err.Error())
	}
	return problems, nil
}

func (s *ProblemService) GetByID(ctx context.Context, id int64, requester *model.Requester) (*model.Problem, error) {
	problem, err := s.problemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !problem.Published && !canManage(problem, requester) {
		return nil, common.Errorf("you do not have permission to view this problem: %w", common.ErrUnauthorized)
	}
	if !canManage(problem, requester) {
		// The reference solution is never part of the public record.
		problem.SolutionCode = nil
		problem.SolutionLanguage = nil
	}
	return problem, nil
}

// GetText returns only the statement text, for the editor and preview.
func (s *ProblemService) GetText(ctx context.Context, id int64, requester *model.Requester) (string, error) {
	problem, err := s.problemRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !problem.Published && !canManage(problem, requester) {
		return "", common.Errorf("you do not have permission to view this problem: %w", common.ErrUnauthorized)
	}
	return s.problemRepo.GetText(ctx, id)
}

func (s *ProblemService) SetText(ctx context.Context, id int64, requester *model.Requester, text string) error {
	problem, err := s.problemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(problem, requester) {
		return common.Errorf("you do not have permission to edit this problem: %w", common.ErrUnauthorized)
	}
	if err := s.problemRepo.SetText(ctx, id, text); err != nil {
		return err
	}
	s.invalidateListing(ctx, problem.AuthorID)
	return nil
}

type UpdateProblemMetaRequest struct {
	Title           *string `json:"title,omitempty"`
	TimeLimitMs     *int    `json:"time_limit_ms,omitempty"`
	MemoryLimitKb   *int    `json:"memory_limit_kb,omitempty"`
	PublicTestCases *bool   `json:"public_test_cases,omitempty"`
}

func (s *ProblemService) UpdateMeta(ctx context.Context, id int64, requester *model.Requester, req UpdateProblemMetaRequest) (*model.Problem, error) {
	problem, err := s.problemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(problem, requester) {
		return nil, common.Errorf("you do not have permission to edit this problem: %w", common.ErrUnauthorized)
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, common.Errorf("title must not be empty: %w", common.ErrValidation)
		}
		problem.Title = *req.Title
		problem.Slug = slug.Make(*req.Title)
	}
	if req.TimeLimitMs != nil {
		if *req.TimeLimitMs <= 0 {
			return nil, common.Errorf("time limit must be positive: %w", common.ErrValidation)
		}
		problem.TimeLimitMs = *req.TimeLimitMs
	}
	if req.MemoryLimitKb != nil {
		if *req.MemoryLimitKb <= 0 {
			return nil, common.Errorf("memory limit must be positive: %w", common.ErrValidation)
		}
		problem.MemoryLimitKb = *req.MemoryLimitKb
	}
	if req.PublicTestCases != nil {
		problem.PublicTestCases = *req.PublicTestCases
	}

	if err := s.problemRepo.UpdateMeta(ctx, problem); err != nil {
		return nil, err
	}
	s.invalidateListing(ctx, problem.AuthorID)
	return problem, nil
}

func (s *ProblemService) SetSolution(ctx context.Context, id int64, requester *model.Requester, code, language string) error {
	problem, err := s.problemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(problem, requester) {
		return common.Errorf("you do not have permission to edit this problem: %w", common.ErrUnauthorized)
	}
	if _, ok := model.LanguageByName(language); !ok {
		return common.Errorf("unsupported solution language %q: %w", language, common.ErrValidation)
	}
	if err := s.problemRepo.SetSolution(ctx, id, code, language); err != nil {
		return err
	}
	s.invalidateListing(ctx, problem.AuthorID)
	return nil
}

// SetVerified marks a problem as staff-reviewed. Moderator-or-above only.
func (s *ProblemService) SetVerified(ctx context.Context, id int64, requester *model.Requester, verified bool) error {
	problem, err := s.problemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !requester.CanModerate() {
		return common.Errorf("you do not have permission to verify problems: %w", common.ErrForbidden)
	}
	if err := s.problemRepo.SetVerified(ctx, id, verified); err != nil {
		return err
	}
	s.invalidateListing(ctx, problem.AuthorID)
	return nil
}

// SetPublished toggles non-owner visibility. Publishing requires the
// authoring workflow to have reached its final step.
func (s *ProblemService) SetPublished(ctx context.Context, id int64, requester *model.Requester, published bool) error {
	problem, err := s.problemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(problem, requester) {
		return common.Errorf("you do not have permission to publish this problem: %w", common.ErrForbidden)
	}
	if published && problem.AuthoringStep != model.LastAuthoringStep {
		return common.Errorf("problem authoring is not complete: %w", common.ErrStepIncomplete)
	}
	if err := s.problemRepo.SetPublished(ctx, id, published); err != nil {
		return err
	}
	s.invalidateListing(ctx, problem.AuthorID)
	return nil
}

// Delete removes the problem and, through the storage layer's cascade,
// all of its test cases.
func (s *ProblemService) Delete(ctx context.Context, id int64, requester *model.Requester) error {
	problem, err := s.problemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(problem, requester) {
		return common.Errorf("you do not have permission to delete this problem: %w", common.ErrForbidden)
	}
	if err := s.problemRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListing(ctx, problem.AuthorID)
	return nil
}

func (s *ProblemService) invalidateListing(ctx context.Context, ownerID string) {
	if err := s.listCache.Invalidate(ctx, ownerID); err != nil {
		s.log.Warn("failed to invalidate problem listing cache", "owner_id", ownerID, "error", err.Error())
	}
}
