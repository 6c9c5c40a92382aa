package service

import (
	"context"
	"testing"
	"vortex_api/internal/common"
	"vortex_api/internal/domain/model"
	"vortex_api/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID     = "owner-1"
	strangerID  = "stranger-1"
	moderatorID = "moderator-1"
)

func newProblemFixture(t *testing.T, maxUserProblems int) (*ProblemService, *fakeProblemRepo, *fakeTestCaseRepo) {
	t.Helper()
	problemRepo := newFakeProblemRepo()
	testCaseRepo := newFakeTestCaseRepo()
	problemRepo.testCases = testCaseRepo
	userRepo := newFakeUserRepo(
		&model.User{ID: ownerID, Username: "owner", Email: "owner@test.dev", Role: model.RoleMember},
		&model.User{ID: strangerID, Username: "stranger", Email: "stranger@test.dev", Role: model.RoleMember},
		&model.User{ID: moderatorID, Username: "mod", Email: "mod@test.dev", Role: model.RoleModerator},
	)
	svc := NewProblemService(problemRepo, userRepo, newFakeListingCache(), maxUserProblems, logger.New(0))
	return svc, problemRepo, testCaseRepo
}

func asOwner() *model.Requester     { return &model.Requester{ID: ownerID, Role: model.RoleMember} }
func asStranger() *model.Requester  { return &model.Requester{ID: strangerID, Role: model.RoleMember} }
func asModerator() *model.Requester { return &model.Requester{ID: moderatorID, Role: model.RoleModerator} }

func TestProblemService_Create_SeedsDefaults(t *testing.T) {
	svc, _, _ := newProblemFixture(t, 2)

	problem, err := svc.Create(context.Background(), ownerID)
	require.NoError(t, err)

	assert.Equal(t, model.DefaultProblemTitle, problem.Title)
	assert.Equal(t, "untitled", problem.Slug)
	assert.Equal(t, model.DefaultProblemText, problem.Text)
	assert.Equal(t, model.DefaultTimeLimitMs, problem.TimeLimitMs)
	assert.Equal(t, model.DefaultMemoryLimitKb, problem.MemoryLimitKb)
	assert.Equal(t, model.FirstAuthoringStep, problem.AuthoringStep)
	assert.False(t, problem.Verified)
	assert.False(t, problem.Published)
}

func TestProblemService_Create_QuotaExceeded(t *testing.T) {
	svc, _, _ := newProblemFixture(t, 2)
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, ownerID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, ownerID)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrQuotaExceeded)

	// The cap is per user, not global.
	_, err = svc.Create(ctx, strangerID)
	assert.NoError(t, err)
}

func TestProblemService_Create_UnknownCaller(t *testing.T) {
	svc, _, _ := newProblemFixture(t, 2)

	_, err := svc.Create(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestProblemService_ListByOwner_VisibilityByRequester(t *testing.T) {
	svc, repo, _ := newProblemFixture(t, 10)
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID) // stays a draft
	require.NoError(t, err)
	public, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)
	repo.problems[public.ID].Verified = true
	repo.problems[public.ID].Published = true

	// Anonymous visitors only see verified, published rows.
	listed, err := svc.ListByOwner(ctx, ownerID, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, public.ID, listed[0].ID)

	// A different member gets the same filtered view.
	listed, err = svc.ListByOwner(ctx, ownerID, asStranger())
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// The owner and moderators see drafts too.
	listed, err = svc.ListByOwner(ctx, ownerID, asOwner())
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	listed, err = svc.ListByOwner(ctx, ownerID, asModerator())
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestProblemService_GetByID_UnpublishedHiddenFromVisitors(t *testing.T) {
	svc, _, _ := newProblemFixture(t, 10)
	ctx := context.Background()

	problem, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, problem.ID, nil)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.GetByID(ctx, problem.ID, asStranger())
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	got, err := svc.GetByID(ctx, problem.ID, asOwner())
	require.NoError(t, err)
	assert.Equal(t, problem.ID, got.ID)

	got, err = svc.GetByID(ctx, problem.ID, asModerator())
	require.NoError(t, err)
	assert.Equal(t, problem.ID, got.ID)
}

func TestProblemService_GetByID_HidesSolutionFromVisitors(t *testing.T) {
	svc, repo, _ := newProblemFixture(t, 10)
	ctx := context.Background()

	problem, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	require.NoError(t, svc.SetSolution(ctx, problem.ID, asOwner(), "int main() {}", "C++"))
	repo.problems[problem.ID].Published = true

	got, err := svc.GetByID(ctx, problem.ID, asStranger())
	require.NoError(t, err)
	assert.Nil(t, got.SolutionCode)
	assert.Nil(t, got.SolutionLanguage)

	got, err = svc.GetByID(ctx, problem.ID, asOwner())
	require.NoError(t, err)
	require.NotNil(t, got.SolutionCode)
	assert.Equal(t, "int main() {}", *got.SolutionCode)
	require.NotNil(t, got.SolutionLanguage)
	assert.Equal(t, "C++", *got.SolutionLanguage)
}

func TestProblemService_SetText_RoundTrip(t *testing.T) {
	svc, repo, _ := newProblemFixture(t, 10)
	ctx := context.Background()

	problem, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	err = svc.SetText(ctx, problem.ID, asStranger(), "hijacked")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	require.NoError(t, svc.SetText(ctx, problem.ID, asOwner(), "# Two Sum"))

	text, err := svc.GetText(ctx, problem.ID, asOwner())
	require.NoError(t, err)
	assert.Equal(t, "# Two Sum", text)
	// The text itself comes through the narrow text read, not the full row.
	assert.Equal(t, 1, repo.getTextCalls)
}

func TestProblemService_GetText_NotFound(t *testing.T) {
	svc, _, _ := newProblemFixture(t, 10)

	_, err := svc.GetText(context.Background(), 999, asOwner())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProblemService_UpdateMeta(t *testing.T) {
	svc, _, _ := newProblemFixture(t, 10)
	ctx := context.Background()

	problem, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	title := "Two Sum II"
	timeLimit := 2500
	updated, err := svc.UpdateMeta(ctx, problem.ID, asOwner(), UpdateProblemMetaRequest{
		Title:       &title,
		TimeLimitMs: &timeLimit,
	})
	require.NoError(t, err)
	assert.Equal(t, "Two Sum II", updated.Title)
	assert.Equal(t, "two-sum-ii", updated.Slug)
	assert.Equal(t, 2500, updated.TimeLimitMs)
	// Untouched fields keep their values.
	assert.Equal(t, model.DefaultMemoryLimitKb, updated.MemoryLimitKb)

	empty := ""
	_, err = svc.UpdateMeta(ctx, problem.ID, asOwner(), UpdateProblemMetaRequest{Title: &empty})
	assert.ErrorIs(t, err, common.ErrValidation)

	negative := -1
	_, err = svc.UpdateMeta(ctx, problem.ID, asOwner(), UpdateProblemMetaRequest{MemoryLimitKb: &negative})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestProblemService_SetSolution_UnknownLanguage(t *testing.T) {
	svc, _, _ := newProblemFixture(t, 10)
	ctx := context.Background()

	problem, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	err = svc.SetSolution(ctx, problem.ID, asOwner(), "print(42)", "Python")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestProblemService_SetVerified_ModeratorOnly(t *testing.T) {
	svc, repo, _ := newProblemFixture(t, 10)
	ctx := context.Background()

	problem, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	// Even the owner cannot self-verify.
	err = svc.SetVerified(ctx, problem.ID, asOwner(), true)
	assert.ErrorIs(t, err, common.ErrForbidden)

	require.NoError(t, svc.SetVerified(ctx, problem.ID, asModerator(), true))
	assert.True(t, repo.problems[problem.ID].Verified)
}

func TestProblemService_SetPublished_RequiresCompletedAuthoring(t *testing.T) {
	svc, repo, _ := newProblemFixture(t, 10)
	ctx := context.Background()

	problem, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)

	err = svc.SetPublished(ctx, problem.ID, asStranger(), true)
	assert.ErrorIs(t, err, common.ErrForbidden)

	err = svc.SetPublished(ctx, problem.ID, asOwner(), true)
	assert.ErrorIs(t, err, common.ErrStepIncomplete)

	repo.problems[problem.ID].AuthoringStep = model.LastAuthoringStep
	require.NoError(t, svc.SetPublished(ctx, problem.ID, asOwner(), true))
	assert.True(t, repo.problems[problem.ID].Published)

	// Unpublishing never depends on the wizard position.
	repo.problems[problem.ID].AuthoringStep = model.FirstAuthoringStep
	require.NoError(t, svc.SetPublished(ctx, problem.ID, asOwner(), false))
	assert.False(t, repo.problems[problem.ID].Published)
}

func TestProblemService_Delete(t *testing.T) {
	svc, repo, testCaseRepo := newProblemFixture(t, 10)
	ctx := context.Background()

	problem, err := svc.Create(ctx, ownerID)
	require.NoError(t, err)
	require.NoError(t, testCaseRepo.CreateWithQuota(ctx, &model.TestCase{ID: "tc-1", ProblemID: problem.ID}, 15))

	err = svc.Delete(ctx, problem.ID, asStranger())
	assert.ErrorIs(t, err, common.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, problem.ID, asOwner()))
	assert.Empty(t, repo.problems)
	assert.Equal(t, 0, testCaseRepo.countByProblem(problem.ID))

	err = svc.Delete(ctx, problem.ID, asOwner())
	assert.ErrorIs(t, err, common.ErrNotFound)
}
