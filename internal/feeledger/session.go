package feeledger

import "edupay-backend/internal/models"

// ScopeToSession filters students and structures down to one academic
// year. Payments carry no session field of their own; they are scoped
// transitively through the student that owns them. Every balance or
// reporting computation that claims to represent "the current session"
// must run on the filtered sets, never the raw ones.
func ScopeToSession(
	students []*models.Student,
	structures []*models.FeeStructure,
	payments []*models.PaymentRecord,
	session string,
) ([]*models.Student, []*models.FeeStructure, []*models.PaymentRecord) {
	var scopedStudents []*models.Student
	inSession := make(map[string]bool, len(students))
	for _, s := range students {
		if s.AcademicYear == session {
			scopedStudents = append(scopedStudents, s)
			inSession[s.ID] = true
		}
	}

	var scopedStructures []*models.FeeStructure
	for _, fs := range structures {
		if fs.AcademicYear == session {
			scopedStructures = append(scopedStructures, fs)
		}
	}

	var scopedPayments []*models.PaymentRecord
	for _, p := range payments {
		if inSession[p.StudentID] {
			scopedPayments = append(scopedPayments, p)
		}
	}

	return scopedStudents, scopedStructures, scopedPayments
}
