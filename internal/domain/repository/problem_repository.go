package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vortex_api/internal/common"
	"vortex_api/internal/domain/model"
)

type ProblemRepository interface {
	// CreateWithQuota persists a new problem unless the author already
	// owns maxOwned problems. The quota is evaluated inside the insert
	// statement so concurrent creations cannot race past the cap.
	CreateWithQuota(ctx context.Context, problem *model.Problem, maxOwned int) error
	FindByID(ctx context.Context, id int64) (*model.Problem, error)
	ListByAuthor(ctx context.Context, authorID string, publicOnly bool) ([]model.Problem, error)
	GetText(ctx context.Context, id int64) (string, error)
	SetText(ctx context.Context, id int64, text string) error
	UpdateMeta(ctx context.Context, problem *model.Problem) error
	SetSolution(ctx context.Context, id int64, code, language string) error
	SetVerified(ctx context.Context, id int64, verified bool) error
	SetPublished(ctx context.Context, id int64, published bool) error
	SetAuthoringStep(ctx context.Context, id int64, step model.AuthoringStep) error
	Delete(ctx context.Context, id int64) error
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) CreateWithQuota(ctx context.Context, p *model.Problem, maxOwned int) error {
	query := `
        INSERT INTO problems (author_id, title, slug, text, time_limit_ms, memory_limit_kb,
                              public_test_cases, verified, published, authoring_step)
        SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
        WHERE (SELECT COUNT(*) FROM problems WHERE author_id = $1) < $11
        RETURNING id, created_at, edited_at`

	err := r.db.QueryRowContext(ctx, query,
		p.AuthorID, p.Title, p.Slug, p.Text, p.TimeLimitMs, p.MemoryLimitKb,
		p.PublicTestCases, p.Verified, p.Published, p.AuthoringStep, maxOwned,
	).Scan(&p.ID, &p.CreatedAt, &p.EditedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("user has made maximum number of problems: %w", common.ErrQuotaExceeded)
		}
		return fmt.Errorf("pgProblemRepository.CreateWithQuota: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) FindByID(ctx context.Context, id int64) (*model.Problem, error) {
	query := `
        SELECT p.id, p.author_id, p.title, p.slug, p.text,
               p.time_limit_ms, p.memory_limit_kb,
               p.public_test_cases, p.verified, p.published,
               p.solution_code, p.solution_language, p.authoring_step,
               p.created_at, p.edited_at,
               u.username,
               (SELECT COUNT(*) FROM test_cases tc WHERE tc.problem_id = p.id) AS test_case_count,
               (SELECT COUNT(*) FROM submissions s WHERE s.problem_id = p.id) AS submission_count
        FROM problems p
        JOIN users u ON p.author_id = u.id
        WHERE p.id = $1`

	problem := &model.Problem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&problem.ID, &problem.AuthorID, &problem.Title, &problem.Slug, &problem.Text,
		&problem.TimeLimitMs, &problem.MemoryLimitKb,
		&problem.PublicTestCases, &problem.Verified, &problem.Published,
		&problem.SolutionCode, &problem.SolutionLanguage, &problem.AuthoringStep,
		&problem.CreatedAt, &problem.EditedAt,
		&problem.AuthorName, &problem.TestCaseCount, &problem.SubmissionCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindByID: %w", err)
	}
	return problem, nil
}

func (r *pgProblemRepository) ListByAuthor(ctx context.Context, authorID string, publicOnly bool) ([]model.Problem, error) {
	query := `
        SELECT p.id, p.author_id, p.title, p.slug,
               p.time_limit_ms, p.memory_limit_kb,
               p.public_test_cases, p.verified, p.published,
               p.authoring_step, p.created_at, p.edited_at,
               u.username,
               (SELECT COUNT(*) FROM test_cases tc WHERE tc.problem_id = p.id) AS test_case_count,
               (SELECT COUNT(*) FROM submissions s WHERE s.problem_id = p.id) AS submission_count
        FROM problems p
        JOIN users u ON p.author_id = u.id
        WHERE p.author_id = $1`
	if publicOnly {
		query += ` AND p.verified = TRUE AND p.published = TRUE`
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListByAuthor query: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		var p model.Problem
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.Title, &p.Slug,
			&p.TimeLimitMs, &p.MemoryLimitKb,
			&p.PublicTestCases, &p.Verified, &p.Published,
			&p.AuthoringStep, &p.CreatedAt, &p.EditedAt,
			&p.AuthorName, &p.TestCaseCount, &p.SubmissionCount,
		); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.ListByAuthor scan: %w", err)
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListByAuthor rows.Err: %w", err)
	}
	return problems, nil
}

func (r *pgProblemRepository) GetText(ctx context.Context, id int64) (string, error) {
	var text string
	err := r.db.QueryRowContext(ctx, `SELECT text FROM problems WHERE id = $1`, id).Scan(&text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("pgProblemRepository.GetText: %w", err)
	}
	return text, nil
}

func (r *pgProblemRepository) SetText(ctx context.Context, id int64, text string) error {
	return r.exec(ctx, "SetText",
		`UPDATE problems SET text = $2, edited_at = CURRENT_TIMESTAMP WHERE id = $1`, id, text)
}

func (r *pgProblemRepository) UpdateMeta(ctx context.Context, p *model.Problem) error {
	return r.exec(ctx, "UpdateMeta",
		`UPDATE problems SET
             title = $2, slug = $3, time_limit_ms = $4, memory_limit_kb = $5,
             public_test_cases = $6, edited_at = CURRENT_TIMESTAMP
         WHERE id = $1`,
		p.ID, p.Title, p.Slug, p.TimeLimitMs, p.MemoryLimitKb, p.PublicTestCases)
}

func (r *pgProblemRepository) SetSolution(ctx context.Context, id int64, code, language string) error {
	return r.exec(ctx, "SetSolution",
		`UPDATE problems SET solution_code = $2, solution_language = $3, edited_at = CURRENT_TIMESTAMP WHERE id = $1`,
		id, code, language)
}

func (r *pgProblemRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	return r.exec(ctx, "SetVerified",
		`UPDATE problems SET verified = $2, edited_at = CURRENT_TIMESTAMP WHERE id = $1`, id, verified)
}

func (r *pgProblemRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	return r.exec(ctx, "SetPublished",
		`UPDATE problems SET published = $2, edited_at = CURRENT_TIMESTAMP WHERE id = $1`, id, published)
}

func (r *pgProblemRepository) SetAuthoringStep(ctx context.Context, id int64, step model.AuthoringStep) error {
	return r.exec(ctx, "SetAuthoringStep",
		`UPDATE problems SET authoring_step = $2 WHERE id = $1`, id, step)
}

// Delete removes the problem; its test cases and submissions go with it
// via the schema's ON DELETE CASCADE.
func (r *pgProblemRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, "Delete", `DELETE FROM problems WHERE id = $1`, id)
}

// exec runs a statement that targets a single problem and translates
// "no row touched" into ErrNotFound.
func (r *pgProblemRepository) exec(ctx context.Context, op, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgProblemRepository.%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
