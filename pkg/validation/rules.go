package validation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"equipment-portal/pkg/constants"
	"equipment-portal/pkg/types"
)

// registerRules registers the tags used in DTO struct tags.
func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"date_ymd":           isCalendarDate,
		"defect_priority":    oneOf(constants.DefectPriorities),
		"reservation_status": oneOf(constants.ReservationStatuses),
		"equipment_status":   oneOf(constants.EquipmentStatuses),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// isCalendarDate accepts "YYYY-MM-DD".
func isCalendarDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(types.DateLayout, fl.Field().String())
	return err == nil
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return constants.Contains(allowed, fl.Field().String())
	}
}
