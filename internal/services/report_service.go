package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"edupay-backend/internal/cache"
	"edupay-backend/internal/feeledger"
	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
	"edupay-backend/internal/repositories"
	"edupay-backend/internal/timeutil"
)

const reportCacheTTL = 120 * time.Second

// DefaulterRow is one student carrying an outstanding balance.
type DefaulterRow struct {
	Student *models.Student           `json:"student"`
	Balance feeledger.BalanceSnapshot `json:"balance"`
}

// DailyCollectionsData summarizes payments received in a date range.
type DailyCollectionsData struct {
	Session       string                                `json:"session"`
	From          time.Time                             `json:"from"`
	To            time.Time                             `json:"to"`
	Payments      []*models.PaymentRecord               `json:"payments"`
	TotalAmount   money.Amount                          `json:"total_amount"`
	TotalCount    int                                   `json:"total_count"`
	ByMethod      map[models.PaymentMethod]money.Amount `json:"by_method"`
	CountByMethod map[models.PaymentMethod]int          `json:"count_by_method"`
}

// ReportService generates defaulter lists, collection summaries, receipt
// PDFs and clearance certificates.
type ReportService struct {
	Students   *repositories.StudentRepository
	Structures *repositories.FeeStructureRepository
	Payments   *repositories.PaymentRepository
	SchoolName string
}

func NewReportService(
	students *repositories.StudentRepository,
	structures *repositories.FeeStructureRepository,
	payments *repositories.PaymentRepository,
	schoolName string,
) *ReportService {
	return &ReportService{
		Students:   students,
		Structures: structures,
		Payments:   payments,
		SchoolName: schoolName,
	}
}

// ListDefaulters returns every student of the session whose balance due is
// strictly positive, largest dues first.
func (s *ReportService) ListDefaulters(ctx context.Context, session string) ([]*DefaulterRow, error) {
	cacheKey := "reports:defaulters:" + session
	if data, ok := cache.GetCached(ctx, cacheKey); ok {
		var rows []*DefaulterRow
		if err := json.Unmarshal(data, &rows); err == nil {
			return rows, nil
		}
	}

	students, err := s.Students.ListBySession(ctx, session)
	if err != nil {
		return nil, err
	}
	structures, err := s.Structures.ListBySession(ctx, session)
	if err != nil {
		return nil, err
	}

	var rows []*DefaulterRow
	for _, st := range students {
		snap := feeledger.ComputeBalance(st, structures)
		if snap.BalanceDue.IsPositive() {
			rows = append(rows, &DefaulterRow{Student: st, Balance: snap})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Balance.BalanceDue > rows[j].Balance.BalanceDue
	})

	if data, err := json.Marshal(rows); err == nil {
		cache.SetCached(ctx, cacheKey, data, reportCacheTTL)
	}
	return rows, nil
}

// GenerateDefaultersCSV renders the defaulter list as a CSV download.
func (s *ReportService) GenerateDefaultersCSV(ctx context.Context, session string) ([]byte, error) {
	rows, err := s.ListDefaulters(ctx, session)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Defaulters Report", session, timeutil.Now().Format(timeutil.DateLayout)})
	w.Write([]string{""})
	w.Write([]string{"#", "Roll No", "Name", "Class", "Parent", "Contact", "Net Payable", "Paid", "Balance Due"})

	for i, r := range rows {
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			r.Student.RollNo,
			r.Student.Name,
			r.Student.ClassName,
			r.Student.ParentName,
			r.Student.Contact,
			r.Balance.NetPayable.String(),
			r.Student.TotalPaid.String(),
			r.Balance.BalanceDue.String(),
		})
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// DailyCollections summarizes the session's payments between two dates,
// inclusive, in IST.
func (s *ReportService) DailyCollections(ctx context.Context, session string, from, to time.Time) (*DailyCollectionsData, error) {
	all, err := s.Payments.ListBySession(ctx, session)
	if err != nil {
		return nil, err
	}

	start := timeutil.StartOfDay(from)
	end := timeutil.EndOfDay(to)

	data := &DailyCollectionsData{
		Session:       session,
		From:          start,
		To:            end,
		ByMethod:      make(map[models.PaymentMethod]money.Amount),
		CountByMethod: make(map[models.PaymentMethod]int),
	}
	for _, p := range all {
		at := timeutil.ToIST(p.Date)
		if at.Before(start) || at.After(end) {
			continue
		}
		data.Payments = append(data.Payments, p)
		data.TotalAmount += p.Amount
		data.TotalCount++
		data.ByMethod[p.Method] += p.Amount
		data.CountByMethod[p.Method]++
	}
	return data, nil
}

// GenerateReceiptPDF renders one payment as a printable receipt.
func (s *ReportService) GenerateReceiptPDF(ctx context.Context, receiptNumber string) ([]byte, error) {
	payment, err := s.Payments.GetByReceiptNumber(ctx, receiptNumber)
	if err != nil {
		return nil, fmt.Errorf("receipt not found: %w", err)
	}
	student, err := s.Students.Get(ctx, payment.StudentID)
	if err != nil {
		return nil, fmt.Errorf("student not found: %w", err)
	}
	structures, err := s.Structures.ListBySession(ctx, student.AcademicYear)
	if err != nil {
		return nil, err
	}
	snap := feeledger.ComputeBalance(student, structures)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, s.SchoolName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(190, 8, "Fee Payment Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Receipt box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Receipt %s", payment.ReceiptNumber), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Student: %s", student.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Class: %s (%s)", student.ClassName, student.AcademicYear), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Roll No: %s", student.RollNo), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Parent: %s", student.ParentName), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", timeutil.ToIST(payment.Date).Format(timeutil.DisplayLayout)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Received By: %s", payment.ReceivedBy), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Payment details
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Payment Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Type: %s", payment.PaymentType), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Method: %s", payment.Method), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Amount: Rs. %s", payment.Amount), "1", 1, "C", false, 0, "")
	if payment.Note != "" {
		pdf.CellFormat(190, 7, fmt.Sprintf("Note: %s", payment.Note), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Balance after this payment
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Account Summary", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Net Payable: Rs. %s", snap.NetPayable), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Total Paid: Rs. %s", student.TotalPaid), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Balance Due: Rs. %s", snap.DueForDisplay()), "1", 1, "C", false, 0, "")

	if student.Status == models.FeeStatusPaid {
		pdf.SetFillColor(200, 255, 200)
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(190, 10, "FULLY PAID", "1", 1, "C", true, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateClearanceCertificate renders a no-dues certificate. Only a
// student whose status is PAID gets one.
func (s *ReportService) GenerateClearanceCertificate(ctx context.Context, studentID string) ([]byte, error) {
	student, err := s.Students.Get(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("student not found: %w", err)
	}
	structures, err := s.Structures.ListBySession(ctx, student.AcademicYear)
	if err != nil {
		return nil, err
	}
	snap := feeledger.ComputeBalance(student, structures)
	if feeledger.StatusFor(student.TotalPaid, snap.NetPayable) != models.FeeStatusPaid {
		return nil, fmt.Errorf("cannot issue clearance certificate: %s still owes Rs. %s", student.Name, snap.BalanceDue)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(180, 12, s.SchoolName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 15)
	pdf.CellFormat(180, 10, "No Dues Certificate", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	body := fmt.Sprintf(
		"This is to certify that %s (Roll No %s), son/daughter of %s, "+
			"studying in class %s for the academic session %s, has cleared "+
			"all fee dues of Rs. %s payable to the school as of %s.",
		student.Name, student.RollNo, student.ParentName,
		student.ClassName, student.AcademicYear,
		snap.NetPayable, timeutil.Now().Format("02-Jan-2006"),
	)
	pdf.MultiCell(180, 8, body, "", "L", false)
	pdf.Ln(20)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(90, 8, fmt.Sprintf("Date: %s", timeutil.Now().Format("02-Jan-2006")), "", 0, "L", false, 0, "")
	pdf.CellFormat(90, 8, "Authorized Signatory", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
