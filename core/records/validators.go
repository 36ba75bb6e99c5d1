package records

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/school"
)

var (
	subjectTag  = "subject"
	subjectText = "unknown subject"

	attendanceStatusTag  = "attendance_status"
	attendanceStatusText = "status must be one of present, absent or excused"
)

// InitValidators registers the records' custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(subjectTag, subjectValidation)
	core.RegisterCustomTranslation(validate, translator, subjectTag, subjectText)

	_ = validate.RegisterValidation(attendanceStatusTag, attendanceStatusValidation)
	core.RegisterCustomTranslation(validate, translator, attendanceStatusTag, attendanceStatusText)
}

// Custom Validators

// subjectValidation checks that the field names a catalogue subject.
func subjectValidation(fl validator.FieldLevel) bool {
	return school.IsSubject(fl.Field().String())
}

func attendanceStatusValidation(fl validator.FieldLevel) bool {
	return AttendanceStatus(fl.Field().String()).IsValid()
}
