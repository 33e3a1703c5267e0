package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
	"github.com/stretchr/testify/require"
)

func TestValidateUUIDs(t *testing.T) {
	require.ErrorIs(t, ValidateUUIDs(nil), ErrEmpty)
	require.ErrorIs(t, ValidateUUIDs([]string{}), ErrEmpty)

	err := ValidateUUIDs([]string{uuid.NewString(), "not-a-uuid"})
	require.Error(t, err)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	require.Contains(t, err.Error(), "not-a-uuid")

	require.NoError(t, ValidateUUIDs([]string{uuid.NewString(), uuid.NewString()}))
}
