// Package extract turns uploaded files into plain text. Only the plain-text
// and CSV paths do real extraction; PDF is best-effort scraping and the
// binary office formats return structured guidance errors.
package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bizkb/bizkb/internal/domain"
)

// SupportedTypes lists the extensions the upload form accepts
var SupportedTypes = []string{
	".txt", ".pdf", ".docx", ".xlsx", ".csv", ".jpg", ".jpeg", ".png", ".gif", ".webp",
}

// Extract returns the text content of an uploaded file. Unsupported or
// unreadable files yield an *domain.UnsupportedFormatError or an error
// wrapping domain.ErrEmptyContent; the content is then empty.
func Extract(filename, contentType string, data []byte) (string, error) {
	fileType := strings.ToLower(contentType)
	name := strings.ToLower(filename)
	ext := filepath.Ext(name)

	switch {
	case fileType == "text/plain" || ext == ".txt":
		return string(data), nil

	case fileType == "application/pdf" || ext == ".pdf":
		return extractPDF(filename, fileType, data)

	case strings.HasPrefix(fileType, "image/") || isImageExt(ext):
		return "", &domain.UnsupportedFormatError{
			FileName: filename, FileType: fileType, SupportedTypes: SupportedTypes,
			Hint: "Image text extraction (OCR) requires an external service. Please transcribe the text manually.",
		}

	case fileType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" || ext == ".docx":
		return "", &domain.UnsupportedFormatError{
			FileName: filename, FileType: fileType, SupportedTypes: SupportedTypes,
			Hint: "Word document extraction is not available. Please copy and paste the content directly.",
		}

	case fileType == "application/msword" || ext == ".doc":
		return "", &domain.UnsupportedFormatError{
			FileName: filename, FileType: fileType, SupportedTypes: SupportedTypes,
			Hint: "Legacy .doc files are not supported. Please save as .docx or paste the content directly.",
		}

	case fileType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" || ext == ".xlsx":
		return "", &domain.UnsupportedFormatError{
			FileName: filename, FileType: fileType, SupportedTypes: SupportedTypes,
			Hint: "Excel extraction is not available. Please export to CSV or paste the data directly.",
		}

	case fileType == "application/vnd.ms-excel" || ext == ".xls":
		return "", &domain.UnsupportedFormatError{
			FileName: filename, FileType: fileType, SupportedTypes: SupportedTypes,
			Hint: "Legacy .xls files are not supported. Please save as .xlsx or paste the content directly.",
		}

	case fileType == "text/csv" || ext == ".csv":
		return extractCSV(data)

	default:
		return "", &domain.UnsupportedFormatError{
			FileName: filename, FileType: contentType, SupportedTypes: SupportedTypes,
		}
	}
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

var pdfTextRun = regexp.MustCompile(`\(([^)]+)\)`)
var hasLetter = regexp.MustCompile(`[a-zA-Z]`)

// extractPDF scrapes parenthesised string literals out of the raw PDF
// bytes. Image-based or compressed PDFs yield nothing useful and get a
// guidance error instead.
func extractPDF(filename, fileType string, data []byte) (string, error) {
	matches := pdfTextRun.FindAllStringSubmatch(string(data), -1)

	var b strings.Builder
	for _, m := range matches {
		text := m[1]
		if len(text) > 3 && hasLetter.MatchString(text) {
			b.WriteString(text)
			b.WriteString(" ")
		}
	}

	extracted := strings.TrimSpace(b.String())
	if len(extracted) > 50 {
		return "[PDF Content Extracted]\n\n" + extracted +
			"\n\n[Note: Basic PDF extraction - some formatting may be lost]", nil
	}

	return "", &domain.UnsupportedFormatError{
		FileName: filename, FileType: fileType, SupportedTypes: SupportedTypes,
		Hint: "Could not extract text from this PDF. It may be image-based or encrypted; please copy and paste the text directly or use a PDF-to-text converter.",
	}
}

const maxCSVRows = 50

// extractCSV renders a CSV file as a readable per-row listing, capped at
// maxCSVRows rows
func extractCSV(data []byte) (string, error) {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: CSV file appears to be empty", domain.ErrEmptyContent)
	}

	headers := splitCSVLine(lines[0])
	rows := lines[1:]

	var b strings.Builder
	fmt.Fprintf(&b, "Data Table (%d rows):\n\n", len(rows))
	fmt.Fprintf(&b, "Columns: %s\n\n", strings.Join(headers, ", "))

	shown := len(rows)
	if shown > maxCSVRows {
		shown = maxCSVRows
	}
	for i := 0; i < shown; i++ {
		values := splitCSVLine(rows[i])
		fmt.Fprintf(&b, "Row %d:\n", i+1)
		for j, header := range headers {
			if j < len(values) && values[j] != "" {
				fmt.Fprintf(&b, "  %s: %s\n", header, values[j])
			}
		}
		b.WriteString("\n")
	}
	if len(rows) > shown {
		fmt.Fprintf(&b, "... and %d more rows\n", len(rows)-shown)
	}

	return b.String(), nil
}

func splitCSVLine(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.Trim(strings.TrimSpace(fields[i]), `"`)
	}
	return fields
}
