package services

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// CertificateService renders course-completion certificates as landscape
// A4 PDFs under certificatesDir.
type CertificateService struct {
	certificatesDir string
}

func NewCertificateService(certificatesDir string) *CertificateService {
	return &CertificateService{certificatesDir: certificatesDir}
}

// Certificate points at a rendered artifact.
type Certificate struct {
	ID   string
	Path string
	URL  string
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewCertificateID builds a time+random identifier. Not collision-proof,
// which is acceptable here; the stored filename carries a uuid so disk
// paths are unique regardless.
func NewCertificateID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = base36[rand.Intn(len(base36))]
	}
	return fmt.Sprintf("QIZZ-%d-%s", time.Now().UnixMilli(), strings.ToUpper(string(suffix)))
}

// Render draws the certificate and writes it to disk. The returned path is
// relative to the working directory so it can be stored and later streamed
// by the download endpoint.
func (s *CertificateService) Render(userName, courseTitle string, score int, userID, courseID uint) (*Certificate, error) {
	doc := gofpdf.New("L", "mm", "A4", "")
	doc.AddPage()
	pageWidth, pageHeight := doc.GetPageSize()

	// Background and border
	doc.SetFillColor(240, 248, 255)
	doc.Rect(0, 0, pageWidth, pageHeight, "F")
	doc.SetDrawColor(0, 102, 204)
	doc.SetLineWidth(3)
	doc.Rect(15, 15, pageWidth-30, pageHeight-30, "D")

	// Seal
	doc.SetFillColor(0, 102, 204)
	doc.Circle(pageWidth/2, 40, 18, "F")

	centered := func(y float64, text string) {
		doc.SetXY(0, y)
		doc.CellFormat(pageWidth, 10, text, "", 0, "C", false, 0, "")
	}

	doc.SetTextColor(0, 102, 204)
	doc.SetFont("Helvetica", "B", 28)
	centered(70, "CERTIFICATE OF COMPLETION")

	doc.SetTextColor(100, 100, 100)
	doc.SetFont("Helvetica", "", 16)
	centered(90, "This is to certify that")

	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "B", 24)
	centered(105, strings.ToUpper(userName))

	doc.SetTextColor(100, 100, 100)
	doc.SetFont("Helvetica", "", 16)
	centered(120, "has successfully completed the course")

	doc.SetTextColor(0, 102, 204)
	doc.SetFont("Helvetica", "B", 20)
	centered(135, fmt.Sprintf("%q", courseTitle))

	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "", 16)
	centered(150, fmt.Sprintf("with a score of %d%%", score))
	centered(162, fmt.Sprintf("Completed on %s", time.Now().Format("January 2, 2006")))

	// Signature line
	doc.SetDrawColor(0, 0, 0)
	doc.SetLineWidth(0.5)
	doc.Line(pageWidth-100, pageHeight-50, pageWidth-25, pageHeight-50)
	doc.SetFont("Helvetica", "", 12)
	doc.SetXY(pageWidth-105, pageHeight-46)
	doc.CellFormat(85, 8, "Qizz E-Learning Platform", "", 0, "C", false, 0, "")

	certificateID := NewCertificateID()
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(150, 150, 150)
	doc.Text(20, pageHeight-20, fmt.Sprintf("Certificate ID: %s", certificateID))

	if err := os.MkdirAll(s.certificatesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create certificates dir: %w", err)
	}

	filename := fmt.Sprintf("certificate-%d-%d-%s.pdf", userID, courseID, uuid.NewString())
	path := filepath.Join(s.certificatesDir, filename)
	if err := doc.OutputFileAndClose(path); err != nil {
		return nil, fmt.Errorf("write certificate: %w", err)
	}

	return &Certificate{
		ID:   certificateID,
		Path: path,
		URL:  fmt.Sprintf("/api/certificate/download/%d", courseID),
	}, nil
}
