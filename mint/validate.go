package mint

import (
	"errors"
	"fmt"

	"github.com/verifield/verifield/types"
	"github.com/verifield/verifield/utils"
)

// ValidateDraft checks the draft fields. A failing draft returns an
// INVALID_DRAFT error whose Data holds one types.FieldError per field.
func ValidateDraft(draft *types.MintFormDraft) error {
	if draft == nil {
		return &types.VerifieldError{
			Code:    types.ErrInvalidDraft,
			Message: "draft is required",
		}
	}

	fieldErrs, err := utils.ValidateStruct(draft)
	if err != nil {
		return &types.VerifieldError{
			Code:    types.ErrInvalidDraft,
			Message: "draft validation failed",
			Err:     err,
		}
	}
	if len(fieldErrs) > 0 {
		return &types.VerifieldError{
			Code:    types.ErrInvalidDraft,
			Message: fmt.Sprintf("invalid draft: %s %s", fieldErrs[0].Field, fieldErrs[0].Message),
			Data:    fieldErrs,
		}
	}
	return nil
}

// FieldErrors returns the per-field messages of an INVALID_DRAFT error.
func FieldErrors(err error) []types.FieldError {
	var verr *types.VerifieldError
	if !errors.As(err, &verr) || verr.Code != types.ErrInvalidDraft {
		return nil
	}
	fieldErrs, _ := verr.Data.([]types.FieldError)
	return fieldErrs
}
