package exporter

import (
	"fmt"
	"io"
	"vortex_api/internal/domain/model"

	"github.com/xuri/excelize/v2"
)

type XLSXProblemListExporter struct{}

var _ ProblemListExporter = (*XLSXProblemListExporter)(nil)

const sheetName = "Problems"

func (e *XLSXProblemListExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *XLSXProblemListExporter) FileExtension() string {
	return "xlsx"
}

func (e *XLSXProblemListExporter) Export(writer io.Writer, problems []model.Problem) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet failed: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet failed: %w", err)
	}

	if err := e.writeHeader(f); err != nil {
		return err
	}

	for row, p := range problems {
		for col, value := range problemRow(p) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("get cell name failed: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("set cell value failed: %w", err)
			}
		}
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("write workbook failed: %w", err)
	}
	return nil
}

func (e *XLSXProblemListExporter) writeHeader(f *excelize.File) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("create header style failed: %w", err)
	}

	for col, header := range problemListHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("get cell name failed: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("set header value failed: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("set header style failed: %w", err)
		}
	}
	return nil
}
