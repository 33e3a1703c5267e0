// Package ids validates identifier lists sent to the bulk delete endpoints.
package ids

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
)

var ErrEmpty = apperrors.Validation("ids must not be empty", nil)

// ValidateUUIDs requires a non-empty list where every entry parses as a UUID.
func ValidateUUIDs(list []string) error {
	if len(list) == 0 {
		return ErrEmpty
	}
	for _, id := range list {
		if _, err := uuid.Parse(id); err != nil {
			return apperrors.Validation(fmt.Sprintf("id %q is not a valid UUID", id), err)
		}
	}
	return nil
}
