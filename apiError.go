package main

import (
	"errors"
	"net/http"

	"bitbucket.org/northguard/safety_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// httpStatusForError maps workflow error codes onto HTTP statuses:
// validation 400, not found 404, precondition 412, invalid transition and
// stale writes 409. Anything else is an internal failure.
func httpStatusForError(err error) int {
	switch {
	case errors.Is(err, utils.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrPreconditionFailed):
		return http.StatusPreconditionFailed
	case errors.Is(err, utils.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, utils.ErrConcurrentModification):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func renderError(c *gin.Context, err error) {
	var wfErr *utils.WorkflowError
	if errors.As(err, &wfErr) {
		c.JSON(httpStatusForError(err), gin.H{"error": wfErr})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func renderBindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{
			"code":   utils.ErrCodeValidation,
			"fields": utils.ProcessValidationErrors(validationErrors),
		}})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{
		"code":   utils.ErrCodeValidation,
		"detail": "invalid request body",
	}})
}

func orgIdFrom(c *gin.Context) string {
	orgId, _ := utils.GetOrgIdFromContext(c.Request.Context())
	return orgId
}
