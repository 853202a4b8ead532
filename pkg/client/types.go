package client

import "go-ats-backend/internal/domain"

// Payload and result types shared with the server. They are aliases so that
// importers outside this module can name them.
type (
	Candidate            = domain.Candidate
	Education            = domain.Education
	Experience           = domain.Experience
	Document             = domain.Document
	DocumentDeletion     = domain.DocumentDeletion
	HealthStatus         = domain.HealthStatus
	CreateCandidateInput = domain.CreateCandidateInput
	UpdateCandidateInput = domain.UpdateCandidateInput
	EducationInput       = domain.EducationInput
	ExperienceInput      = domain.ExperienceInput
	CandidateStatus      = domain.CandidateStatus
	SortField            = domain.SortField
	SortOrder            = domain.SortOrder
)

const (
	StatusActive   = domain.StatusActive
	StatusInReview = domain.StatusInReview
	StatusHired    = domain.StatusHired
	StatusRejected = domain.StatusRejected
	StatusArchived = domain.StatusArchived

	SortByCreatedAt = domain.SortByCreatedAt
	SortByLastName  = domain.SortByLastName
	SortByEmail     = domain.SortByEmail
	SortAsc         = domain.SortAsc
	SortDesc        = domain.SortDesc

	DefaultPage         = domain.DefaultPage
	DefaultLimit        = domain.DefaultLimit
	MaxFileSize         = domain.MaxUploadSize
	DefaultDocumentType = domain.DefaultDocumentType
	MIMETypePDF         = domain.MIMETypePDF
	MIMETypeDOCX        = domain.MIMETypeDOCX
)
