package domain

import "context"

type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

type ExportFile struct {
	FileName    string
	Format      ExportFormat
	ContentType string
	Content     []byte
	Rows        int
}

type ExportUsecase interface {
	Export(ctx context.Context, filter CandidateFilter, format ExportFormat) (*ExportFile, error)
}
