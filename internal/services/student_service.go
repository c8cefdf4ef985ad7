package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"edupay-backend/internal/cache"
	"edupay-backend/internal/feeledger"
	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
	"edupay-backend/internal/repositories"
)

// StudentWithBalance pairs a student with their derived snapshot for
// listing surfaces. Every consumer gets the same arithmetic: the snapshot
// comes from the ledger core, never from handler-local math.
type StudentWithBalance struct {
	*models.Student
	Balance feeledger.BalanceSnapshot `json:"balance"`
}

type StudentService struct {
	Repo          *repositories.StudentRepository
	StructureRepo *repositories.FeeStructureRepository
	Audit         *ActivityService
	Publisher     *HubPublisher
}

func NewStudentService(
	repo *repositories.StudentRepository,
	structureRepo *repositories.FeeStructureRepository,
	audit *ActivityService,
	publisher *HubPublisher,
) *StudentService {
	return &StudentService{
		Repo:          repo,
		StructureRepo: structureRepo,
		Audit:         audit,
		Publisher:     publisher,
	}
}

func validateEnrollment(req *models.CreateStudentRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("student name is required")
	}
	if strings.TrimSpace(req.ClassName) == "" {
		return fmt.Errorf("class name is required")
	}
	if req.Gender != models.GenderMale && req.Gender != models.GenderFemale {
		return fmt.Errorf("unknown gender %q", req.Gender)
	}
	if req.PreviousYearDues.IsNegative() {
		return fmt.Errorf("previous year dues cannot be negative")
	}
	if req.Discount.IsNegative() {
		return fmt.Errorf("discount cannot be negative")
	}
	return nil
}

func newStudentFrom(req *models.CreateStudentRequest, session string) *models.Student {
	return &models.Student{
		RollNo:           strings.TrimSpace(req.RollNo),
		Name:             strings.TrimSpace(req.Name),
		ClassName:        strings.TrimSpace(req.ClassName),
		AcademicYear:     session,
		ParentName:       strings.TrimSpace(req.ParentName),
		Contact:          strings.TrimSpace(req.Contact),
		Gender:           req.Gender,
		PreviousYearDues: req.PreviousYearDues,
		Discount:         req.Discount,
		TotalPaid:        0,
	}
}

// Enroll creates one student in the given session.
func (s *StudentService) Enroll(ctx context.Context, req *models.CreateStudentRequest, session string, actorID int, actorName string) (*models.Student, error) {
	if err := validateEnrollment(req); err != nil {
		return nil, err
	}

	student := newStudentFrom(req, session)
	structures, err := s.StructureRepo.ListBySession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to load fee structures: %w", err)
	}
	student = feeledger.Reprice(student, structures)

	if err := s.Repo.Create(ctx, student); err != nil {
		return nil, err
	}

	cache.InvalidateStudentCaches(ctx)
	if s.Audit != nil {
		s.Audit.Log(ctx, actorID, actorName, models.ActionStudentAdded,
			fmt.Sprintf("Enrolled %s (%s, %s)", student.Name, student.ClassName, session))
	}
	return student, nil
}

// BulkEnroll enrolls many students at once. Every row is tagged with the
// active session unconditionally, even when the import data named another
// year, matching the batch-import invariant.
func (s *StudentService) BulkEnroll(ctx context.Context, reqs []models.CreateStudentRequest, session string, actorID int, actorName string) ([]*models.Student, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("no students to enroll")
	}

	structures, err := s.StructureRepo.ListBySession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to load fee structures: %w", err)
	}

	students := make([]*models.Student, 0, len(reqs))
	for i := range reqs {
		if err := validateEnrollment(&reqs[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		students = append(students, feeledger.Reprice(newStudentFrom(&reqs[i], session), structures))
	}

	if err := s.Repo.CreateBatch(ctx, students); err != nil {
		return nil, err
	}

	cache.InvalidateStudentCaches(ctx)
	if s.Audit != nil {
		s.Audit.Log(ctx, actorID, actorName, models.ActionStudentAdded,
			fmt.Sprintf("Enrolled %d new students into %s", len(students), session))
	}
	return students, nil
}

// csv column layout: roll_no,name,class_name,parent_name,contact,gender,previous_year_dues,discount
var csvHeader = []string{"roll_no", "name", "class_name", "parent_name", "contact", "gender", "previous_year_dues", "discount"}

// ParseEnrollmentCSV reads a bulk-import CSV into enrollment requests.
// Any academic-year column in the file is ignored; the active session
// wins.
func ParseEnrollmentCSV(r io.Reader) ([]models.CreateStudentRequest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "class_name"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("CSV is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var reqs []models.CreateStudentRequest
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		dues, err := parseOptionalAmount(field(record, "previous_year_dues"))
		if err != nil {
			return nil, fmt.Errorf("line %d: previous_year_dues: %w", line, err)
		}
		discount, err := parseOptionalAmount(field(record, "discount"))
		if err != nil {
			return nil, fmt.Errorf("line %d: discount: %w", line, err)
		}

		gender := models.Gender(strings.ToUpper(field(record, "gender")))
		if gender == "" {
			gender = models.GenderMale
		}

		reqs = append(reqs, models.CreateStudentRequest{
			RollNo:           field(record, "roll_no"),
			Name:             field(record, "name"),
			ClassName:        field(record, "class_name"),
			ParentName:       field(record, "parent_name"),
			Contact:          field(record, "contact"),
			Gender:           gender,
			PreviousYearDues: dues,
			Discount:         discount,
		})
	}
	return reqs, nil
}

func parseOptionalAmount(s string) (money.Amount, error) {
	if s == "" {
		return 0, nil
	}
	return money.Parse(s)
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	return s.Repo.Get(ctx, id)
}

// ListWithBalances returns the session's students, each with a snapshot
// computed against the session's structures.
func (s *StudentService) ListWithBalances(ctx context.Context, session string) ([]*StudentWithBalance, error) {
	students, err := s.Repo.ListBySession(ctx, session)
	if err != nil {
		return nil, err
	}
	structures, err := s.StructureRepo.ListBySession(ctx, session)
	if err != nil {
		return nil, err
	}

	out := make([]*StudentWithBalance, 0, len(students))
	for _, st := range students {
		out = append(out, &StudentWithBalance{
			Student: st,
			Balance: feeledger.ComputeBalance(st, structures),
		})
	}
	return out, nil
}

// Update applies administrative edits. Dues or discount changes reprice
// the student against the current structures before persisting.
func (s *StudentService) Update(ctx context.Context, id string, req *models.UpdateStudentRequest, actorID int, actorName string) (*models.Student, error) {
	student, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("student not found: %w", err)
	}
	if req.PreviousYearDues.IsNegative() || req.Discount.IsNegative() {
		return nil, fmt.Errorf("dues and discount cannot be negative")
	}

	student.RollNo = req.RollNo
	student.Name = req.Name
	student.ClassName = req.ClassName
	student.ParentName = req.ParentName
	student.Contact = req.Contact
	student.Gender = req.Gender
	student.PreviousYearDues = req.PreviousYearDues
	student.Discount = req.Discount

	structures, err := s.StructureRepo.ListBySession(ctx, student.AcademicYear)
	if err != nil {
		return nil, fmt.Errorf("failed to load fee structures: %w", err)
	}
	student = feeledger.Reprice(student, structures)

	if err := s.Repo.Update(ctx, student); err != nil {
		return nil, err
	}

	cache.InvalidateStudentCaches(ctx)
	if s.Publisher != nil {
		s.Publisher.PublishStudentUpdated(student.AcademicYear, student)
	}
	if s.Audit != nil {
		s.Audit.Log(ctx, actorID, actorName, models.ActionStudentUpdated,
			fmt.Sprintf("Updated %s (%s)", student.Name, student.ClassName))
	}
	return student, nil
}

// ApplyDiscount changes only the discount and recomputes the status
// against the existing paid total. No payment is implied.
func (s *StudentService) ApplyDiscount(ctx context.Context, id string, newDiscount money.Amount, actorID int, actorName string) (*models.Student, error) {
	if newDiscount.IsNegative() {
		return nil, fmt.Errorf("discount cannot be negative")
	}

	student, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("student not found: %w", err)
	}

	structures, err := s.StructureRepo.ListBySession(ctx, student.AcademicYear)
	if err != nil {
		return nil, fmt.Errorf("failed to load fee structures: %w", err)
	}

	updated := feeledger.ApplyDiscount(student, structures, newDiscount)
	if err := s.Repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	cache.InvalidateStudentCaches(ctx)
	if s.Publisher != nil {
		s.Publisher.PublishStudentUpdated(updated.AcademicYear, updated)
	}
	if s.Audit != nil {
		s.Audit.Log(ctx, actorID, actorName, models.ActionDiscountApplied,
			fmt.Sprintf("Applied discount of %s to %s", newDiscount, updated.Name))
	}
	return updated, nil
}

// Delete removes a student administratively.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateStudentCaches(ctx)
	return nil
}

// ListSessions returns every academic year that has students.
func (s *StudentService) ListSessions(ctx context.Context) ([]string, error) {
	return s.Repo.ListSessions(ctx)
}
