package tracker

import (
	"github.com/trezcool/homeschool/core/school"
	localstore "github.com/trezcool/homeschool/storage/local"
)

// UpdateStudent validates and replaces the student information.
func (svc *Service) UpdateStudent(si school.StudentInfo) (school.StudentInfo, error) {
	if err := svc.validateStruct(&si); err != nil {
		return school.StudentInfo{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.student = si
	svc.local.Set(localstore.KeyStudentInfo, si)
	return si, nil
}
