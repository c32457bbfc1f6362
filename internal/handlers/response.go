package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  apperrors "github.com/yungbote/lingobridge-backend/internal/pkg/errors"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps sentinel errors to HTTP statuses so handlers
// don't repeat the same errors.Is ladder.
func RespondServiceError(c *gin.Context, code string, err error) {
  switch {
  case errors.Is(err, apperrors.ErrNotFound):
    RespondError(c, http.StatusNotFound, code, err)
  case errors.Is(err, apperrors.ErrInvalidArgument):
    RespondError(c, http.StatusBadRequest, code, err)
  case errors.Is(err, apperrors.ErrUnauthorized):
    RespondError(c, http.StatusUnauthorized, code, err)
  default:
    RespondError(c, http.StatusInternalServerError, code, err)
  }
}
