package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
	"github.com/quillpress/quillpress/backend/go-services/pkg/logger"
)

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindNotFound:       http.StatusNotFound,
	apperrors.KindValidation:     http.StatusBadRequest,
	apperrors.KindAuthentication: http.StatusUnauthorized,
	apperrors.KindAuthorization:  http.StatusForbidden,
	apperrors.KindConflict:       http.StatusConflict,
}

// respondError translates a service error into a status and JSON body.
// Unclassified errors are logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": verrs})
		return
	}
	status, ok := statusByKind[apperrors.KindOf(err)]
	if !ok {
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	body := gin.H{"error": apperrors.MessageOf(err)}
	var aerr *apperrors.Error
	if errors.As(err, &aerr) && aerr.Kind == apperrors.KindValidation && aerr.Err != nil {
		body["details"] = aerr.Err.Error()
	}
	c.JSON(status, body)
}

// bind decodes the JSON body and runs its Validate method.
func bind(c *gin.Context, req validation.Validatable) bool {
	return decode(c, req, false)
}

// bindOptional is bind for endpoints whose body may be absent. Bodies of
// unknown length are still read.
func bindOptional(c *gin.Context, req validation.Validatable) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	return decode(c, req, true)
}

func decode(c *gin.Context, req validation.Validatable, optional bool) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return false
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return false
	}
	return true
}
