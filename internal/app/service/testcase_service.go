package service

import (
	"context"
	"vortex_api/internal/common"
	"vortex_api/internal/domain/model"
	"vortex_api/internal/domain/repository"
	"vortex_api/internal/logger"

	"github.com/google/uuid"
)

type TestCaseService struct {
	testCaseRepo repository.TestCaseRepository
	problemRepo  repository.ProblemRepository
	listCache    ListingCache
	maxTestCases int
	log          *logger.Logger
}

func NewTestCaseService(
	testCaseRepo repository.TestCaseRepository,
	problemRepo repository.ProblemRepository,
	listCache ListingCache,
	maxTestCases int,
	log *logger.Logger,
) *TestCaseService {
	return &TestCaseService{
		testCaseRepo: testCaseRepo,
		problemRepo:  problemRepo,
		listCache:    listCache,
		maxTestCases: maxTestCases,
		log:          log,
	}
}

// Create attaches an empty test case to the problem. The quota check
// runs before the permission check so a full problem reports
// ErrQuotaExceeded even to callers who could not edit it.
func (s *TestCaseService) Create(ctx context.Context, problemID int64, requester *model.Requester) (*model.TestCase, error) {
	problem, err := s.problemRepo.FindByID(ctx, problemID)
	if err != nil {
		return nil, err
	}
	if problem.TestCaseCount >= s.maxTestCases {
		return nil, common.Errorf("problem has the maximum number of test cases: %w", common.ErrQuotaExceeded)
	}
	if !canManage(problem, requester) {
		return nil, common.Errorf("you do not have permission to create a test case: %w", common.ErrUnauthorized)
	}

	testCase := &model.TestCase{
		ID:        uuid.NewString(),
		ProblemID: problemID,
		Input:     "",
		Output:    "",
	}
	if err := s.testCaseRepo.CreateWithQuota(ctx, testCase, s.maxTestCases); err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, problem.AuthorID)
	return testCase, nil
}

// ListByProblem returns the problem's test cases in creation order.
// Hidden test cases are only readable by the owner or moderators.
func (s *TestCaseService) ListByProblem(ctx context.Context, problemID int64, requester *model.Requester) ([]model.TestCase, error) {
	problem, err := s.problemRepo.FindByID(ctx, problemID)
	if err != nil {
		return nil, err
	}
	if !problem.PublicTestCases && !canManage(problem, requester) {
		return nil, common.Errorf("you do not have permission to view the test cases: %w", common.ErrUnauthorized)
	}
	return s.testCaseRepo.ListByProblem(ctx, problemID)
}

func (s *TestCaseService) Update(ctx context.Context, id string, requester *model.Requester, input, output string) (*model.TestCase, error) {
	problem, err := s.resolveParent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(problem, requester) {
		return nil, common.Errorf("you do not have permission to update the selected test case: %w", common.ErrForbidden)
	}
	return s.testCaseRepo.Update(ctx, id, input, output)
}

func (s *TestCaseService) Delete(ctx context.Context, id string, requester *model.Requester) error {
	problem, err := s.resolveParent(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(problem, requester) {
		return common.Errorf("you do not have permission to delete the requested test case: %w", common.ErrForbidden)
	}
	if err := s.testCaseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListing(ctx, problem.AuthorID)
	return nil
}

// resolveParent loads the test case's parent problem; a missing test
// case or problem both surface as ErrNotFound.
func (s *TestCaseService) resolveParent(ctx context.Context, testCaseID string) (*model.Problem, error) {
	testCase, err := s.testCaseRepo.FindByID(ctx, testCaseID)
	if err != nil {
		return nil, err
	}
	return s.problemRepo.FindByID(ctx, testCase.ProblemID)
}

func (s *TestCaseService) invalidateListing(ctx context.Context, ownerID string) {
	if err := s.listCache.Invalidate(ctx, ownerID); err != nil {
		s.log.Warn("failed to invalidate problem listing cache", "owner_id", ownerID, "error", err.Error())
	}
}
