package payroll

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	cryptoutil "govpay/internal/platform/crypto"
)

// PDFGenerator renders payslip documents to disk, encrypted at rest when a
// data key is configured.
type PDFGenerator struct {
	store  StoreAPI
	crypto *cryptoutil.Service
	dir    string
}

func NewPDFGenerator(store StoreAPI, crypto *cryptoutil.Service, dir string) *PDFGenerator {
	return &PDFGenerator{store: store, crypto: crypto, dir: dir}
}

func (g *PDFGenerator) Generate(ctx context.Context, payslipID int64) (string, error) {
	detail, err := g.store.GetPayslipDetail(ctx, payslipID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(g.dir, "payslip-"+strconv.FormatInt(payslipID, 10)+".pdf")

	var buf bytes.Buffer
	if err := renderPayslip(&buf, detail); err != nil {
		return "", err
	}

	if g.crypto != nil && g.crypto.Configured() {
		encrypted, err := g.crypto.Encrypt(buf.Bytes())
		if err != nil {
			return "", err
		}
		encryptedPath := filePath + ".enc"
		if err := os.WriteFile(encryptedPath, encrypted, 0o600); err != nil {
			return "", err
		}
		return encryptedPath, nil
	}

	if err := os.WriteFile(filePath, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return filePath, nil
}

// Load reads a generated payslip document, decrypting .enc files.
func (g *PDFGenerator) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".enc") {
		return g.crypto.Decrypt(data)
	}
	return data, nil
}

func renderPayslip(buf *bytes.Buffer, detail PayslipDetail) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Bulletin de paie")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s (%s)", detail.EmployeeName, detail.EmployeeSurname, detail.EmployeeNumber))
	pdf.Ln(7)
	if detail.MinistryName != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Ministry: %s", detail.MinistryName))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %02d/%d", detail.PeriodMonth, detail.PeriodYear))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %s FC", detail.Gross.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %s FC", detail.Deductions.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %s FC", detail.Net.StringFixed(2)))
	if detail.PaidAt != nil {
		pdf.Ln(10)
		pdf.Cell(0, 8, fmt.Sprintf("Paid at: %s", detail.PaidAt.Format("2006-01-02")))
	}
	return pdf.Output(buf)
}
