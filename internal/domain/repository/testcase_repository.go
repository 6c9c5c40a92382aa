package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vortex_api/internal/common"
	"vortex_api/internal/domain/model"
)

type TestCaseRepository interface {
	// CreateWithQuota attaches a new test case to its problem unless the
	// problem already holds maxPerProblem cases. The cap is evaluated
	// inside the insert statement to close the check-then-insert race.
	CreateWithQuota(ctx context.Context, testCase *model.TestCase, maxPerProblem int) error
	FindByID(ctx context.Context, id string) (*model.TestCase, error)
	ListByProblem(ctx context.Context, problemID int64) ([]model.TestCase, error)
	Update(ctx context.Context, id, input, output string) (*model.TestCase, error)
	Delete(ctx context.Context, id string) error
}

type pgTestCaseRepository struct {
	db *sql.DB
}

func NewPgTestCaseRepository(db *sql.DB) TestCaseRepository {
	return &pgTestCaseRepository{db: db}
}

func (r *pgTestCaseRepository) CreateWithQuota(ctx context.Context, tc *model.TestCase, maxPerProblem int) error {
	query := `
        INSERT INTO test_cases (id, problem_id, input, output)
        SELECT $1, $2, $3, $4
        WHERE (SELECT COUNT(*) FROM test_cases WHERE problem_id = $2) < $5
        RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, tc.ID, tc.ProblemID, tc.Input, tc.Output, maxPerProblem).Scan(&tc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("problem has the maximum number of test cases: %w", common.ErrQuotaExceeded)
		}
		return fmt.Errorf("pgTestCaseRepository.CreateWithQuota: %w", err)
	}
	return nil
}

func (r *pgTestCaseRepository) FindByID(ctx context.Context, id string) (*model.TestCase, error) {
	query := `SELECT id, problem_id, input, output, created_at FROM test_cases WHERE id = $1`
	tc := &model.TestCase{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&tc.ID, &tc.ProblemID, &tc.Input, &tc.Output, &tc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTestCaseRepository.FindByID: %w", err)
	}
	return tc, nil
}

func (r *pgTestCaseRepository) ListByProblem(ctx context.Context, problemID int64) ([]model.TestCase, error) {
	query := `SELECT id, problem_id, input, output, created_at
              FROM test_cases WHERE problem_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgTestCaseRepository.ListByProblem query: %w", err)
	}
	defer rows.Close()

	testCases := []model.TestCase{}
	for rows.Next() {
		var tc model.TestCase
		if err := rows.Scan(&tc.ID, &tc.ProblemID, &tc.Input, &tc.Output, &tc.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgTestCaseRepository.ListByProblem scan: %w", err)
		}
		testCases = append(testCases, tc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTestCaseRepository.ListByProblem rows.Err: %w", err)
	}
	return testCases, nil
}

func (r *pgTestCaseRepository) Update(ctx context.Context, id, input, output string) (*model.TestCase, error) {
	query := `UPDATE test_cases SET input = $2, output = $3 WHERE id = $1
              RETURNING id, problem_id, input, output, created_at`
	tc := &model.TestCase{}
	err := r.db.QueryRowContext(ctx, query, id, input, output).Scan(&tc.ID, &tc.ProblemID, &tc.Input, &tc.Output, &tc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTestCaseRepository.Update: %w", err)
	}
	return tc, nil
}

func (r *pgTestCaseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM test_cases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgTestCaseRepository.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgTestCaseRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
