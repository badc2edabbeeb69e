// Package service holds the TaskLink business rules. Services return
// *models.AppError values that handlers translate to HTTP statuses.
package service

import (
	"errors"

	"tasklink/internal/models"
)

func isNotFound(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeNotFound
}
