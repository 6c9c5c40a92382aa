package service

import (
	"context"
	"vortex_api/internal/common"
	"vortex_api/internal/domain/model"
	"vortex_api/internal/domain/repository"
	"vortex_api/internal/logger"
)

// AuthoringService drives the problem authorship wizard as a small state
// machine: five named steps, each with an explicit readiness predicate
// that gates advancing. The current step lives on the problem row, so an
// interrupted session resumes where it stopped.
type AuthoringService struct {
	problemRepo  repository.ProblemRepository
	testCaseRepo repository.TestCaseRepository
	listCache    ListingCache
	log          *logger.Logger
}

func NewAuthoringService(
	problemRepo repository.ProblemRepository,
	testCaseRepo repository.TestCaseRepository,
	listCache ListingCache,
	log *logger.Logger,
) *AuthoringService {
	return &AuthoringService{
		problemRepo:  problemRepo,
		testCaseRepo: testCaseRepo,
		listCache:    listCache,
		log:          log,
	}
}

type AuthoringState struct {
	ProblemID  int64               `json:"problem_id"`
	Step       model.AuthoringStep `json:"step"`
	StepName   string              `json:"step_name"`
	TotalSteps int                 `json:"total_steps"`
	Ready      bool                `json:"ready"` // Current step satisfies its readiness predicate
}

// State reports the wizard position and whether the current step is
// ready to advance.
func (s *AuthoringService) State(ctx context.Context, problemID int64, requester *model.Requester) (*AuthoringState, error) {
	problem, err := s.load(ctx, problemID, requester)
	if err != nil {
		return nil, err
	}
	return s.state(ctx, problem)
}

// Advance moves the wizard forward one step, refusing while the current
// step's readiness predicate fails.
func (s *AuthoringService) Advance(ctx context.Context, problemID int64, requester *model.Requester) (*AuthoringState, error) {
	problem, err := s.load(ctx, problemID, requester)
	if err != nil {
		return nil, err
	}
	if problem.AuthoringStep >= model.LastAuthoringStep {
		return nil, common.Errorf("already at the final authoring step: %w", common.ErrConflict)
	}
	ready, err := s.stepReady(ctx, problem)
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, common.Errorf("step %q is not complete: %w", problem.AuthoringStep, common.ErrStepIncomplete)
	}
	problem.AuthoringStep++
	if err := s.problemRepo.SetAuthoringStep(ctx, problemID, problem.AuthoringStep); err != nil {
		return nil, err
	}
	s.invalidateListing(ctx, problem.AuthorID)
	return s.state(ctx, problem)
}

// Previous moves the wizard back one step; it never fails below the
// first step, it just stays there.
func (s *AuthoringService) Previous(ctx context.Context, problemID int64, requester *model.Requester) (*AuthoringState, error) {
	problem, err := s.load(ctx, problemID, requester)
	if err != nil {
		return nil, err
	}
	if problem.AuthoringStep > model.FirstAuthoringStep {
		problem.AuthoringStep--
		if err := s.problemRepo.SetAuthoringStep(ctx, problemID, problem.AuthoringStep); err != nil {
			return nil, err
		}
		s.invalidateListing(ctx, problem.AuthorID)
	}
	return s.state(ctx, problem)
}

// The dashboard listing includes the wizard position, so moving the
// wizard invalidates the owner's cached listing like any other mutation.
func (s *AuthoringService) invalidateListing(ctx context.Context, ownerID string) {
	if err := s.listCache.Invalidate(ctx, ownerID); err != nil {
		s.log.Warn("failed to invalidate problem listing cache", "owner_id", ownerID, "error", err.Error())
	}
}

func (s *AuthoringService) load(ctx context.Context, problemID int64, requester *model.Requester) (*model.Problem, error) {
	problem, err := s.problemRepo.FindByID(ctx, problemID)
	if err != nil {
		return nil, err
	}
	if !canManage(problem, requester) {
		return nil, common.Errorf("you do not have permission to author this problem: %w", common.ErrUnauthorized)
	}
	return problem, nil
}

func (s *AuthoringService) state(ctx context.Context, problem *model.Problem) (*AuthoringState, error) {
	ready, err := s.stepReady(ctx, problem)
	if err != nil {
		return nil, err
	}
	return &AuthoringState{
		ProblemID:  problem.ID,
		Step:       problem.AuthoringStep,
		StepName:   problem.AuthoringStep.String(),
		TotalSteps: int(model.LastAuthoringStep),
		Ready:      ready,
	}, nil
}

// stepReady evaluates the readiness predicate of the problem's current
// step against stored state.
func (s *AuthoringService) stepReady(ctx context.Context, problem *model.Problem) (bool, error) {
	switch problem.AuthoringStep {
	case model.StepStatement:
		return problem.Text != "" && problem.Text != model.DefaultProblemText, nil
	case model.StepTestCases:
		testCases, err := s.testCaseRepo.ListByProblem(ctx, problem.ID)
		if err != nil {
			return false, err
		}
		for _, tc := range testCases {
			if tc.Input != "" && tc.Output != "" {
				return true, nil
			}
		}
		return false, nil
	case model.StepSolution:
		if problem.SolutionCode == nil || *problem.SolutionCode == "" || problem.SolutionLanguage == nil {
			return false, nil
		}
		_, ok := model.LanguageByName(*problem.SolutionLanguage)
		return ok, nil
	case model.StepLimits:
		return problem.TimeLimitMs > 0 && problem.MemoryLimitKb > 0, nil
	case model.StepReview:
		return true, nil
	default:
		return false, common.Errorf("unknown authoring step %d: %w", problem.AuthoringStep, common.ErrInternalServer)
	}
}
