package response

import (
	"log"
	"net/http"

	"castlebooking/internal/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError renders err at the request boundary. Errors that are not an
// *apperror.Error are logged and reported as a generic 500.
func FromError(c *gin.Context, err error) {
	if ae, ok := apperror.As(err); ok {
		Error(c, ae.Status, ae.Code, ae.Message)
		return
	}
	_ = c.Error(err)
	log.Printf("unhandled_error method=%s path=%s error=%q", c.Request.Method, c.Request.URL.Path, err.Error())
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}

// Abort is FromError followed by c.Abort, for use in middleware.
func Abort(c *gin.Context, err error) {
	FromError(c, err)
	c.Abort()
}
