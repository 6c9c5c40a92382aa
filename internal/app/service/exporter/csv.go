package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"vortex_api/internal/domain/model"
)

type CSVProblemListExporter struct{}

var _ ProblemListExporter = (*CSVProblemListExporter)(nil)

func (e *CSVProblemListExporter) ContentType() string {
	return "text/csv"
}

func (e *CSVProblemListExporter) FileExtension() string {
	return "csv"
}

func (e *CSVProblemListExporter) Export(writer io.Writer, problems []model.Problem) error {
	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	if err := csvWriter.Write(problemListHeaders); err != nil {
		return fmt.Errorf("write header failed: %w", err)
	}
	for _, p := range problems {
		if err := csvWriter.Write(problemRow(p)); err != nil {
			return fmt.Errorf("write row failed: %w", err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
