package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"go-ats-backend/internal/delivery/http/middleware"
	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/security"
	"go-ats-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
	exportUC    domain.ExportUsecase
	audit       *security.SecurityLogger
}

func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase, exportUC domain.ExportUsecase, audit *security.SecurityLogger) {
	handler := &CandidateHandler{candidateUC: candidateUC, exportUC: exportUC, audit: audit}

	candidates := r.Group("/candidates")
	{
		candidates.POST("", handler.Create)
		candidates.GET("", handler.List)
		candidates.GET("/export", handler.Export)
		candidates.GET("/:id", handler.Get)
		candidates.PUT("/:id", handler.Update)
		candidates.DELETE("/:id", handler.Delete)
	}
}

// Create godoc
// @Summary      Create candidate
// @Description  Creates a candidate with optional education and experience entries
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateCandidateInput  true  "Candidate"
// @Success      201   {object}  response.Response{data=domain.Candidate}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /api/candidates [post]
func (h *CandidateHandler) Create(c *gin.Context) {
	var input domain.CreateCandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(invalidBody(err))
		return
	}

	candidate, err := h.candidateUC.Create(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidate created successfully", candidate)
}

// List godoc
// @Summary      List candidates
// @Tags         candidates
// @Produce      json
// @Param        page       query     int     false  "Page (default 1)"
// @Param        limit      query     int     false  "Page size (1-100, default 10)"
// @Param        search     query     string  false  "Matches first name, last name or email"
// @Param        status     query     string  false  "active, in_review, hired, rejected, archived"
// @Param        sortBy     query     string  false  "createdAt, lastName, email"
// @Param        sortOrder  query     string  false  "asc, desc"
// @Success      200        {object}  response.Response{data=[]domain.Candidate,pagination=response.Pagination}
// @Failure      400        {object}  response.Response
// @Router       /api/candidates [get]
func (h *CandidateHandler) List(c *gin.Context) {
	filter, err := validation.ValidateFilters(c.Request.URL.Query())
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.candidateUC.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Paginated(c, result.Items, response.Pagination{
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// Export godoc
// @Summary      Export candidates
// @Description  Exports every candidate matching the list filters (max 10000 rows)
// @Tags         candidates
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        format     query     string  false  "xlsx (default) or csv"
// @Param        search     query     string  false  "Search term"
// @Param        status     query     string  false  "Status filter"
// @Success      200
// @Failure      400        {object}  response.Response
// @Router       /api/candidates/export [get]
func (h *CandidateHandler) Export(c *gin.Context) {
	filter, err := validation.ValidateFilters(c.Request.URL.Query())
	if err != nil {
		c.Error(err)
		return
	}

	file, err := h.exportUC.Export(c.Request.Context(), filter, domain.ExportFormat(c.Query("format")))
	if err != nil {
		c.Error(err)
		return
	}

	h.audit.LogDataExport(c.Request.Context(), middleware.AuditInfo(c), string(file.Format), file.Rows)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Header("X-Export-Rows", strconv.Itoa(file.Rows))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// Get godoc
// @Summary      Get candidate
// @Description  Returns the candidate with all education, experience and documents
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/candidates/{id} [get]
func (h *CandidateHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	candidate, err := h.candidateUC.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "", candidate)
}

// Update godoc
// @Summary      Update candidate
// @Description  Applies the provided fields only
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id    path      int                          true  "Candidate ID"
// @Param        body  body      domain.UpdateCandidateInput  true  "Fields to change"
// @Success      200   {object}  response.Response{data=domain.Candidate}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /api/candidates/{id} [put]
func (h *CandidateHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input domain.UpdateCandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(invalidBody(err))
		return
	}

	candidate, err := h.candidateUC.Update(c.Request.Context(), id, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate updated successfully", candidate)
}

// Delete godoc
// @Summary      Delete candidate
// @Description  Deletes the candidate with its education, experience and document records
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/candidates/{id} [delete]
func (h *CandidateHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.candidateUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	h.audit.LogCandidateDeleted(c.Request.Context(), middleware.AuditInfo(c), id)

	response.Success(c, http.StatusOK, "Candidate deleted successfully", nil)
}

// pathID parses a positive integer path parameter or records a 400.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.Validation("Invalid "+name, apperror.FieldError{
			Field:   name,
			Message: "must be a positive integer",
		}))
		return 0, false
	}
	return id, true
}

func invalidBody(err error) error {
	return apperror.Validation("Invalid request body", apperror.FieldError{Field: "body", Message: err.Error()})
}
