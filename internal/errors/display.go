package errors

import (
	"strings"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

const defaultDisplayMessage = "An unexpected error occurred"

// DisplayMessage returns the first non-empty hint on err, which is the text
// meant for end users
func DisplayMessage(err error) string {
	// GetAllHints is post-order, so the outermost hint comes first
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return defaultDisplayMessage
}

// SafeDetails merges every reportable detail attached to err
func SafeDetails(err error) map[string]any {
	details := make(map[string]any)

	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			jsonStr, ok := strings.CutPrefix(payload, "__json__:")
			if !ok {
				continue
			}
			var d map[string]any
			if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(jsonStr, &d); err == nil {
				for k, v := range d {
					details[k] = v
				}
			}
		}
	}

	return details
}

// NewErrorResponse renders err in the API error envelope
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Display: DisplayMessage(err),
			Details: SafeDetails(err),
		},
	}
}
