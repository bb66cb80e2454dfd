package apperrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorResponse is the JSON body sent for every failed request.
type errorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError writes err to the gin response. AppErrors keep their HTTP
// status and code; anything else becomes an opaque 500.
func HandleError(c *gin.Context, err error) {
	if appErr, ok := As(err); ok {
		status := appErr.HTTPCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.AbortWithStatusJSON(status, errorResponse{Error: appErr})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
		Error: New(CodeInternalError, "system", "Internal server error", http.StatusInternalServerError),
	})
}
