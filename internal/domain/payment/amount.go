package payment

import (
	"fmt"
	"strconv"
	"strings"

	"terminalpay/internal/controller/apperror"
)

// ParseAmount converts an operator-entered amount string into minor
// currency units: "12.50" -> 1250, "7" -> 700. The value must be a
// positive number with at most two decimal places; anything else is a
// validation failure with no remote effect.
func ParseAmount(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: amount is required", apperror.ErrValidation)
	}

	// signs are rejected outright: "-0.50" would otherwise slip through a
	// numeric check, since its whole part parses to plain zero
	if strings.HasPrefix(raw, "-") || strings.HasPrefix(raw, "+") {
		return 0, fmt.Errorf("%w: amount must be positive", apperror.ErrValidation)
	}

	whole, frac, hasFrac := strings.Cut(raw, ".")

	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: amount %q is not numeric", apperror.ErrValidation, raw)
	}

	major := int64(0)
	if whole != "" {
		v, err := strconv.ParseUint(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: amount %q is not numeric", apperror.ErrValidation, raw)
		}
		major = int64(v)
	}

	minor := int64(0)
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("%w: amount %q must have at most two decimal places", apperror.ErrValidation, raw)
		}
		v, err := strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: amount %q is not numeric", apperror.ErrValidation, raw)
		}
		minor = int64(v)
		if len(frac) == 1 {
			minor *= 10
		}
	}

	cents := major*100 + minor
	if cents <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", apperror.ErrValidation)
	}
	return cents, nil
}
