package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/bizkb/bizkb/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	content, err := Extract("notes.txt", "text/plain", []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", content)
}

func TestExtractCSV(t *testing.T) {
	csv := "name,amount\nAds,1200\nEvents,300\n"
	content, err := Extract("spend.csv", "text/csv", []byte(csv))
	require.NoError(t, err)
	assert.Contains(t, content, "Data Table (2 rows)")
	assert.Contains(t, content, "Columns: name, amount")
	assert.Contains(t, content, "amount: 1200")
}

func TestExtractCSVCapsRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,value\n")
	for i := 0; i < 80; i++ {
		b.WriteString("1,x\n")
	}
	content, err := Extract("big.csv", "text/csv", []byte(b.String()))
	require.NoError(t, err)
	assert.Contains(t, content, "... and 30 more rows")
}

func TestExtractEmptyCSV(t *testing.T) {
	_, err := Extract("empty.csv", "text/csv", []byte("  \n  \n"))
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

func TestExtractLegacyExcel(t *testing.T) {
	_, err := Extract("ledger.xls", "application/vnd.ms-excel", []byte{0x01})
	var unsupported *domain.UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Contains(t, unsupported.Error(), ".xls")
	assert.Contains(t, unsupported.Error(), ".xlsx")
	assert.Equal(t, "ledger.xls", unsupported.FileName)
}

func TestExtractImageNeedsOCR(t *testing.T) {
	_, err := Extract("scan.png", "image/png", []byte{0x89})
	var unsupported *domain.UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Contains(t, unsupported.Error(), "OCR")
}

func TestExtractUnknownType(t *testing.T) {
	_, err := Extract("archive.zip", "application/zip", []byte{0x50})
	var unsupported *domain.UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "application/zip", unsupported.FileType)
	assert.Equal(t, SupportedTypes, unsupported.SupportedTypes)
}

func TestExtractPDFWithTextRuns(t *testing.T) {
	// A minimal stream of parenthesised literals, the only thing the
	// best-effort scraper picks up.
	raw := "%PDF-1.4 (This is the first line of text) junk (and here is quite a lot more readable content) end"
	content, err := Extract("report.pdf", "application/pdf", []byte(raw))
	require.NoError(t, err)
	assert.Contains(t, content, "This is the first line of text")
	assert.Contains(t, content, "[PDF Content Extracted]")
}

func TestExtractPDFWithoutText(t *testing.T) {
	_, err := Extract("scan.pdf", "application/pdf", []byte("%PDF-1.4 binary only"))
	var unsupported *domain.UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Contains(t, unsupported.Error(), "PDF")
}
