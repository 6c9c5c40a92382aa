package model

import (
	"time"
)

// Defaults a freshly created problem is seeded with.
const (
	DefaultProblemTitle  = "Untitled"
	DefaultTimeLimitMs   = 1000
	DefaultMemoryLimitKb = 256000
)

// DefaultProblemText seeds the statement editor for a new problem.
const DefaultProblemText = `# Your Problem Title Here

## Statement
This is where you describe your coding problem. The editor supports markdown, so you can **bold**, *italicize*, and ~~strikethrough~~ text. [Links](https://www.example.com) and ` + "`inline code support`" + ` are also offered.

- Lists
    1. Both unordered,
    2. And ordered

> Block quotes, for that extra pizzazz

` + "```\nCode blocks\n```" + `

Math mode (via KaTeX LaTeX), both inline (like $x^2$), and block.

## Input
This is where you would describe the format of the expected input and output. The use of
` + "```\ncode blocks\n```" + `
to detail these is encouraged.`

type Problem struct {
	ID               int64         `json:"id"`
	AuthorID         string        `json:"author_id"`
	Title            string        `json:"title"`
	Slug             string        `json:"slug"`
	Text             string        `json:"text,omitempty"`
	TimeLimitMs      int           `json:"time_limit_ms"`
	MemoryLimitKb    int           `json:"memory_limit_kb"`
	PublicTestCases  bool          `json:"public_test_cases"`
	Verified         bool          `json:"verified"`
	Published        bool          `json:"published"`
	SolutionCode     *string       `json:"solution_code,omitempty"` // Owner/moderator view only
	SolutionLanguage *string       `json:"solution_language,omitempty"`
	AuthoringStep    AuthoringStep `json:"authoring_step"`
	CreatedAt        time.Time     `json:"created_at"`
	EditedAt         time.Time     `json:"edited_at"`

	AuthorName      string `json:"author_name,omitempty"` // For display
	TestCaseCount   int    `json:"test_case_count"`
	SubmissionCount int    `json:"submission_count"`
}

// AuthoringStep names a position in the problem authorship wizard. The
// step persists on the problem row so an interrupted session resumes
// where it left off.
type AuthoringStep int

const (
	StepStatement AuthoringStep = iota + 1
	StepTestCases
	StepSolution
	StepLimits
	StepReview

	FirstAuthoringStep = StepStatement
	LastAuthoringStep  = StepReview
)

func (s AuthoringStep) Valid() bool {
	return s >= FirstAuthoringStep && s <= LastAuthoringStep
}

func (s AuthoringStep) String() string {
	switch s {
	case StepStatement:
		return "statement"
	case StepTestCases:
		return "test_cases"
	case StepSolution:
		return "solution"
	case StepLimits:
		return "limits"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}
