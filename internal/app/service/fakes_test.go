package service

import (
	"context"
	"time"
	"vortex_api/internal/common"
	"vortex_api/internal/domain/model"
)

// In-memory repository fakes shared by the service tests. They mirror
// the storage layer's observable behavior: quota-gated inserts,
// ErrNotFound on missing rows, and cascade deletion of test cases.

type fakeProblemRepo struct {
	nextID       int64
	problems     map[int64]*model.Problem
	testCases    *fakeTestCaseRepo
	getTextCalls int
}

func newFakeProblemRepo() *fakeProblemRepo {
	return &fakeProblemRepo{problems: map[int64]*model.Problem{}}
}

func (f *fakeProblemRepo) CreateWithQuota(_ context.Context, p *model.Problem, maxOwned int) error {
	owned := 0
	for _, existing := range f.problems {
		if existing.AuthorID == p.AuthorID {
			owned++
		}
	}
	if owned >= maxOwned {
		return common.Errorf("user has made maximum number of problems: %w", common.ErrQuotaExceeded)
	}
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	p.EditedAt = p.CreatedAt
	stored := *p
	f.problems[p.ID] = &stored
	return nil
}

func (f *fakeProblemRepo) FindByID(_ context.Context, id int64) (*model.Problem, error) {
	stored, ok := f.problems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	p := *stored
	if f.testCases != nil {
		p.TestCaseCount = f.testCases.countByProblem(id)
	}
	return &p, nil
}

func (f *fakeProblemRepo) ListByAuthor(_ context.Context, authorID string, publicOnly bool) ([]model.Problem, error) {
	problems := []model.Problem{}
	for _, stored := range f.problems {
		if stored.AuthorID != authorID {
			continue
		}
		if publicOnly && !(stored.Verified && stored.Published) {
			continue
		}
		problems = append(problems, *stored)
	}
	return problems, nil
}

func (f *fakeProblemRepo) GetText(_ context.Context, id int64) (string, error) {
	f.getTextCalls++
	stored, ok := f.problems[id]
	if !ok {
		return "", common.ErrNotFound
	}
	return stored.Text, nil
}

func (f *fakeProblemRepo) SetText(_ context.Context, id int64, text string) error {
	stored, ok := f.problems[id]
	if !ok {
		return common.ErrNotFound
	}
	stored.Text = text
	stored.EditedAt = time.Now()
	return nil
}

func (f *fakeProblemRepo) UpdateMeta(_ context.Context, p *model.Problem) error {
	stored, ok := f.problems[p.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.Title = p.Title
	stored.Slug = p.Slug
	stored.TimeLimitMs = p.TimeLimitMs
	stored.MemoryLimitKb = p.MemoryLimitKb
	stored.PublicTestCases = p.PublicTestCases
	stored.EditedAt = time.Now()
	return nil
}

func (f *fakeProblemRepo) SetSolution(_ context.Context, id int64, code, language string) error {
	stored, ok := f.problems[id]
	if !ok {
		return common.ErrNotFound
	}
	stored.SolutionCode = &code
	stored.SolutionLanguage = &language
	stored.EditedAt = time.Now()
	return nil
}

func (f *fakeProblemRepo) SetVerified(_ context.Context, id int64, verified bool) error {
	stored, ok := f.problems[id]
	if !ok {
		return common.ErrNotFound
	}
	stored.Verified = verified
	return nil
}

func (f *fakeProblemRepo) SetPublished(_ context.Context, id int64, published bool) error {
	stored, ok := f.problems[id]
	if !ok {
		return common.ErrNotFound
	}
	stored.Published = published
	return nil
}

func (f *fakeProblemRepo) SetAuthoringStep(_ context.Context, id int64, step model.AuthoringStep) error {
	stored, ok := f.problems[id]
	if !ok {
		return common.ErrNotFound
	}
	stored.AuthoringStep = step
	return nil
}

func (f *fakeProblemRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.problems[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.problems, id)
	if f.testCases != nil {
		f.testCases.deleteByProblem(id)
	}
	return nil
}

type fakeTestCaseRepo struct {
	order     []string
	testCases map[string]*model.TestCase
}

func newFakeTestCaseRepo() *fakeTestCaseRepo {
	return &fakeTestCaseRepo{testCases: map[string]*model.TestCase{}}
}

func (f *fakeTestCaseRepo) countByProblem(problemID int64) int {
	count := 0
	for _, tc := range f.testCases {
		if tc.ProblemID == problemID {
			count++
		}
	}
	return count
}

func (f *fakeTestCaseRepo) deleteByProblem(problemID int64) {
	remaining := f.order[:0]
	for _, id := range f.order {
		if f.testCases[id].ProblemID == problemID {
			delete(f.testCases, id)
			continue
		}
		remaining = append(remaining, id)
	}
	f.order = remaining
}

func (f *fakeTestCaseRepo) CreateWithQuota(_ context.Context, tc *model.TestCase, maxPerProblem int) error {
	if f.countByProblem(tc.ProblemID) >= maxPerProblem {
		return common.Errorf("problem has the maximum number of test cases: %w", common.ErrQuotaExceeded)
	}
	tc.CreatedAt = time.Now()
	stored := *tc
	f.testCases[tc.ID] = &stored
	f.order = append(f.order, tc.ID)
	return nil
}

func (f *fakeTestCaseRepo) FindByID(_ context.Context, id string) (*model.TestCase, error) {
	stored, ok := f.testCases[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	tc := *stored
	return &tc, nil
}

func (f *fakeTestCaseRepo) ListByProblem(_ context.Context, problemID int64) ([]model.TestCase, error) {
	testCases := []model.TestCase{}
	for _, id := range f.order {
		if f.testCases[id].ProblemID == problemID {
			testCases = append(testCases, *f.testCases[id])
		}
	}
	return testCases, nil
}

func (f *fakeTestCaseRepo) Update(_ context.Context, id, input, output string) (*model.TestCase, error) {
	stored, ok := f.testCases[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	stored.Input = input
	stored.Output = output
	tc := *stored
	return &tc, nil
}

func (f *fakeTestCaseRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.testCases[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.testCases, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// fakeListingCache records what the services cache and invalidate.
type fakeListingCache struct {
	entries     map[string][]model.Problem
	invalidated []string
}

func newFakeListingCache() *fakeListingCache {
	return &fakeListingCache{entries: map[string][]model.Problem{}}
}

func (f *fakeListingCache) Get(_ context.Context, ownerID string) ([]model.Problem, bool) {
	problems, ok := f.entries[ownerID]
	return problems, ok
}

func (f *fakeListingCache) Set(_ context.Context, ownerID string, problems []model.Problem) error {
	f.entries[ownerID] = problems
	return nil
}

func (f *fakeListingCache) Invalidate(_ context.Context, ownerID string) error {
	delete(f.entries, ownerID)
	f.invalidated = append(f.invalidated, ownerID)
	return nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		stored := *u
		f.users[u.ID] = &stored
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return common.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	stored, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	u := *stored
	return &u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, stored := range f.users {
		if stored.Email == email {
			u := *stored
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, stored := range f.users {
		if stored.Username == username {
			u := *stored
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) UpsertByEmail(_ context.Context, user *model.User) (*model.User, error) {
	for _, stored := range f.users {
		if stored.Email == user.Email {
			stored.Username = user.Username
			stored.EmailVerified = user.EmailVerified
			stored.Image = user.Image
			u := *stored
			return &u, nil
		}
	}
	stored := *user
	f.users[user.ID] = &stored
	u := stored
	return &u, nil
}
