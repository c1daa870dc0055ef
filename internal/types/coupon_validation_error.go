package types

import (
	"github.com/samber/lo"
)

// CouponValidationErrorCode identifies why a coupon could not be applied
type CouponValidationErrorCode string

const (
	CouponValidationErrorCodeNotFound CouponValidationErrorCode = "COUPON_NOT_FOUND"
	CouponValidationErrorCodeInactive CouponValidationErrorCode = "COUPON_INACTIVE"

	// Date window
	CouponValidationErrorCodeExpired     CouponValidationErrorCode = "COUPON_EXPIRED"
	CouponValidationErrorCodeNotYetValid CouponValidationErrorCode = "COUPON_NOT_YET_VALID"

	// Event or category scope
	CouponValidationErrorCodeNotApplicable CouponValidationErrorCode = "COUPON_NOT_APPLICABLE"

	// Usage counters
	CouponValidationErrorCodeUsageLimitReached   CouponValidationErrorCode = "COUPON_USAGE_LIMIT_REACHED"
	CouponValidationErrorCodePerUserLimitReached CouponValidationErrorCode = "COUPON_PER_USER_LIMIT_REACHED"

	CouponValidationErrorCodeBelowMinimumOrder CouponValidationErrorCode = "COUPON_BELOW_MINIMUM_ORDER"
)

func (c CouponValidationErrorCode) String() string {
	return string(c)
}

// IsUsageError reports whether the code is caused by exhausted counters
func (c CouponValidationErrorCode) IsUsageError() bool {
	return lo.Contains([]CouponValidationErrorCode{
		CouponValidationErrorCodeUsageLimitReached,
		CouponValidationErrorCodePerUserLimitReached,
	}, c)
}

// IsDateError reports whether the code is caused by the validity window
func (c CouponValidationErrorCode) IsDateError() bool {
	return c == CouponValidationErrorCodeExpired || c == CouponValidationErrorCodeNotYetValid
}
