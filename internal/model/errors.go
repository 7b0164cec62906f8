package model

import "errors"

// Failure kinds surfaced by the pipeline. Wrap them with fmt.Errorf("%w: ...")
// and branch on them with errors.Is.
var (
	ErrInvalidImage     = errors.New("invalid image")
	ErrModelUnavailable = errors.New("model not loaded")
	ErrInference        = errors.New("inference failed")
	ErrUnknownLabel     = errors.New("unknown label")
	ErrInvalidRequest   = errors.New("invalid request")
)

// ErrorCode returns a stable machine-readable code for err.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidImage):
		return "INVALID_IMAGE"
	case errors.Is(err, ErrModelUnavailable):
		return "MODEL_UNAVAILABLE"
	case errors.Is(err, ErrInference):
		return "INFERENCE_ERROR"
	case errors.Is(err, ErrUnknownLabel):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidRequest):
		return "INVALID_REQUEST"
	default:
		return "INTERNAL_ERROR"
	}
}
