package school

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/homeschool/core"
)

type StudentInfo struct {
	Name       string `json:"name" validate:"notblank"`
	Grade      string `json:"grade" validate:"notblank"`
	SchoolYear string `json:"schoolYear" validate:"notblank"`
}

// NewStudentInfo returns the student described by `conf`.
func NewStudentInfo(conf core.StudentConfig) StudentInfo {
	return StudentInfo{
		Name:       core.CleanString(conf.Name),
		Grade:      core.CleanString(conf.Grade),
		SchoolYear: core.CleanString(conf.SchoolYear),
	}
}

func (si *StudentInfo) Clean() {
	si.Name = core.CleanString(si.Name)
	si.Grade = core.CleanString(si.Grade)
	si.SchoolYear = core.CleanString(si.SchoolYear)
}

func (si *StudentInfo) Validate(validate *validator.Validate) error {
	si.Clean()
	return validate.Struct(si)
}
