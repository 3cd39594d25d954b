package catalog

import (
	"math"

	platformerrors "github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
)

// ValidateRecord checks the numeric constraints of every field present in
// the record and reports the first failing field. Absent fields are fine;
// partial updates validate only what they carry.
func ValidateRecord(op string, r Record) error {
	if v, present := r["price"]; present && v != nil {
		price := coerceNumber(v)
		if math.IsNaN(price) {
			return platformerrors.New(platformerrors.KindValidation, op, "price must be a number")
		}
		if price < 0 {
			return platformerrors.New(platformerrors.KindValidation, op, "price must be a non-negative number")
		}
	}

	if v, present := r["rating"]; present && v != nil {
		rating := coerceNumber(v)
		if math.IsNaN(rating) {
			return platformerrors.New(platformerrors.KindValidation, op, "rating must be a number")
		}
		if rating < 0 || rating > 5 {
			return platformerrors.New(platformerrors.KindValidation, op, "rating must be between 0 and 5")
		}
	}

	if v, present := r["warranty_years"]; present && v != nil {
		years, ok := coerceInt(v)
		if !ok || years < 0 {
			return platformerrors.New(platformerrors.KindValidation, op, "warranty_years must be a non-negative integer")
		}
	}

	return nil
}
