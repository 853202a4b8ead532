package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/telemetry"
	"go-ats-backend/pkg/validation"

	"github.com/xuri/excelize/v2"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
	exportSheet     = "Candidates"
)

var exportColumns = []string{
	"ID", "FIRST NAME", "LAST NAME", "EMAIL", "PHONE", "STATUS",
	"LATEST POSITION", "LATEST COMPANY", "LATEST INSTITUTION", "CV", "CREATED AT",
}

type exportUsecase struct {
	repo domain.CandidateRepository
	now  func() time.Time
}

func NewExportUsecase(repo domain.CandidateRepository) domain.ExportUsecase {
	return &exportUsecase{repo: repo, now: time.Now}
}

// Export renders every candidate matching the list filters (page and limit
// ignored) up to domain.ExportLimit rows.
func (u *exportUsecase) Export(ctx context.Context, filter domain.CandidateFilter, format domain.ExportFormat) (*domain.ExportFile, error) {
	ctx, span := tracer.Start(ctx, "ExportUsecase.Export")
	defer span.End()

	if format == "" {
		format = domain.ExportXLSX
	}
	if format != domain.ExportXLSX && format != domain.ExportCSV {
		return nil, apperror.Validation("Invalid query parameters", apperror.FieldError{
			Field:   "format",
			Message: "format must be one of [xlsx csv]",
		})
	}

	filter = validation.NormalizeFilter(filter)
	filter.Page = 1
	filter.Limit = domain.ExportLimit

	candidates, _, err := u.repo.List(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Wrap(err, "Failed to fetch candidates for export")
	}

	rows := make([][]string, 0, len(candidates))
	for i := range candidates {
		rows = append(rows, exportRow(&candidates[i]))
	}
	span.SetAttributes(telemetry.Int("export.rows", len(rows)), telemetry.String("export.format", string(format)))

	stamp := u.now().Format("20060102_150405")
	var content []byte
	switch format {
	case domain.ExportCSV:
		content, err = renderCSV(rows)
	default:
		content, err = renderExcel(rows)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperror.Internal(err)
	}

	file := &domain.ExportFile{
		FileName:    fmt.Sprintf("candidates_%s.%s", stamp, format),
		Format:      format,
		ContentType: contentTypeXLSX,
		Content:     content,
		Rows:        len(rows),
	}
	if format == domain.ExportCSV {
		file.ContentType = contentTypeCSV
	}
	return file, nil
}

func exportRow(c *domain.Candidate) []string {
	var position, company, institution, cv string
	if len(c.Experience) > 0 {
		position = c.Experience[0].Position
		company = c.Experience[0].Company
	}
	if len(c.Education) > 0 {
		institution = c.Education[0].Institution
	}
	if len(c.Documents) > 0 {
		cv = c.Documents[0].OriginalName
	}
	return []string{
		strconv.FormatInt(c.ID, 10),
		c.FirstName,
		c.LastName,
		c.Email,
		deref(c.Phone),
		string(c.Status),
		position,
		company,
		institution,
		cv,
		c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func renderExcel(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(exportSheet, "A1", endCell, headerStyle)

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(exportSheet, cell, value)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheet, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
