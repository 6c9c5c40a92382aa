package exporter

import (
	"fmt"
	"io"
	"vortex_api/internal/common"
	"vortex_api/internal/domain/model"
)

// ProblemListExporter writes a problem dashboard listing to an output
// stream in some tabular format.
type ProblemListExporter interface {
	ContentType() string
	FileExtension() string
	Export(writer io.Writer, problems []model.Problem) error
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// New returns the exporter for the requested format.
func New(format Format) (ProblemListExporter, error) {
	switch format {
	case FormatCSV:
		return &CSVProblemListExporter{}, nil
	case FormatXLSX:
		return &XLSXProblemListExporter{}, nil
	default:
		return nil, common.Errorf("unsupported export format %q: %w", format, common.ErrBadRequest)
	}
}

// problemListHeaders is the column order shared by every format.
var problemListHeaders = []string{
	"ID", "Title", "Author", "Created", "Edited",
	"Time Limit (ms)", "Memory Limit (KB)",
	"Public Test Cases", "Verified", "Published",
	"Test Cases", "Submissions",
}

func problemRow(p model.Problem) []string {
	return []string{
		fmt.Sprintf("%d", p.ID),
		p.Title,
		p.AuthorName,
		p.CreatedAt.Format("2006-01-02 15:04:05"),
		p.EditedAt.Format("2006-01-02 15:04:05"),
		fmt.Sprintf("%d", p.TimeLimitMs),
		fmt.Sprintf("%d", p.MemoryLimitKb),
		fmt.Sprintf("%t", p.PublicTestCases),
		fmt.Sprintf("%t", p.Verified),
		fmt.Sprintf("%t", p.Published),
		fmt.Sprintf("%d", p.TestCaseCount),
		fmt.Sprintf("%d", p.SubmissionCount),
	}
}
