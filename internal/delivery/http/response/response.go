package response

import (
	"net/http"

	"go-ats-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const RequestIDKey = "RequestID"

// Response standardizes the API JSON envelope
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
	RequestID  string      `json:"requestId,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ErrorBody struct {
	Code    apperror.Kind         `json:"code"`
	Message string                `json:"message"`
	Details []apperror.FieldError `json:"details,omitempty"`
}

func requestID(c *gin.Context) string {
	reqID, _ := c.Get(RequestIDKey)
	idStr, _ := reqID.(string)
	return idStr
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Paginated sends one page of items with its pagination block
func Paginated(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       data,
		Pagination: &p,
		RequestID:  requestID(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, status int, code apperror.Kind, message string, details []apperror.FieldError) {
	c.JSON(status, Response{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		RequestID: requestID(c),
	})
}

// AppError renders a typed error with its own status and code
func AppError(c *gin.Context, err *apperror.AppError) {
	Error(c, err.Status, err.Kind, err.Message, err.Details)
}
