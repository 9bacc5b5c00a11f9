package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// PDFService wraps text extraction and on-disk storage of uploaded PDFs.
type PDFService struct {
	uploadDir      string
	maxUploadBytes int64
}

func NewPDFService(uploadDir string, maxUploadBytes int64) *PDFService {
	return &PDFService{uploadDir: uploadDir, maxUploadBytes: maxUploadBytes}
}

// SavedPDF describes a stored upload.
type SavedPDF struct {
	Filename     string
	OriginalName string
	Path         string
	Size         int64
}

var (
	whitespaceRe     = regexp.MustCompile(`\s+`)
	trailingPageRe   = regexp.MustCompile(`(?m)\d+\s*$`)
	standalonePageRe = regexp.MustCompile(`(?m)^\s*\d+\s*$`)
)

// Validate rejects non-PDF and oversized uploads.
func (s *PDFService) Validate(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "application/pdf") {
		return fmt.Errorf("only PDF files are allowed")
	}
	if size > s.maxUploadBytes {
		return fmt.Errorf("file size must be less than %dMB", s.maxUploadBytes/(1024*1024))
	}
	return nil
}

// Save writes the upload under uploadDir/<userID>/ with a unique filename.
func (s *PDFService) Save(content []byte, originalName string, userID uint) (*SavedPDF, error) {
	dir := filepath.Join(s.uploadDir, strconv.FormatUint(uint64(userID), 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := fmt.Sprintf("course_%s_%s", uuid.NewString(), filepath.Base(originalName))
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("save pdf: %w", err)
	}

	return &SavedPDF{
		Filename:     filename,
		OriginalName: originalName,
		Path:         path,
		Size:         int64(len(content)),
	}, nil
}

// Delete removes a stored PDF. Missing files are not an error.
func (s *PDFService) Delete(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExtractText extracts plain text from PDF bytes and normalizes it.
func (s *PDFService) ExtractText(content []byte) (string, int, error) {
	if len(content) == 0 {
		return "", 0, fmt.Errorf("empty PDF content")
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n")
		}
		text.WriteString(pageText)
	}

	return CleanExtractedText(text.String()), r.NumPage(), nil
}

// ExtractTextFromFile re-extracts from a stored PDF, used by regenerate
// when the truncated source text has been lost.
func (s *PDFService) ExtractTextFromFile(path string) (string, int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("read pdf: %w", err)
	}
	return s.ExtractText(content)
}

// CleanExtractedText strips page numbers and collapses whitespace.
func CleanExtractedText(text string) string {
	text = standalonePageRe.ReplaceAllString(text, "")
	text = trailingPageRe.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:chapter|section|part)\s*\d*[:\-\s]+([^\n.]+)`),
	regexp.MustCompile(`(?m)^\d+\.\s*([^\n.]+)`),
}

// ExtractKeySections pulls heading-like strings out of raw text. It is the
// structural fallback when AI topic extraction returns nothing.
func ExtractKeySections(text string) []string {
	seen := make(map[string]bool)
	var sections []string
	for _, pattern := range sectionPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := strings.TrimSpace(match[1])
			if len(candidate) <= 5 || len(candidate) >= 100 || seen[candidate] {
				continue
			}
			seen[candidate] = true
			sections = append(sections, candidate)
		}
	}
	if len(sections) > 20 {
		sections = sections[:20]
	}
	return sections
}

// SentenceTopics is the last-resort topic fallback: the leading sentences
// of the text, clipped to 80 characters each.
func SentenceTopics(text string) []string {
	var topics []string
	for _, raw := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		sentence := strings.TrimSpace(raw)
		if len(sentence) <= 20 {
			continue
		}
		if len(sentence) > 80 {
			sentence = sentence[:80] + "…"
		}
		topics = append(topics, sentence)
		if len(topics) == 15 {
			break
		}
	}
	return topics
}

// EstimateReadingTime returns minutes at an average reading speed.
func EstimateReadingTime(text string) int {
	const wordsPerMinute = 200
	words := len(strings.Fields(text))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
