package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the files the engine reads and writes
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // plain word list, one word per line
	FormatTable              // exported wildcard adjacency table
)

// FormatInfo contains metadata about a file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt", ".dict", ".lst", ""},
		MinSize:     1,
	},
	FormatTable: {
		Format:      FormatTable,
		Description: "Wildcard Adjacency Table",
		Extensions:  []string{".wct"},
		MinSize:     4, // "a* b" is the smallest useful line
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(formatInfo.Extensions, ext) {
		return fmt.Errorf("file %s has invalid extension %q for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatTable {
		return validateTableFormat(filename)
	}
	return nil
}

// validateTableFormat checks that the first line looks like "pattern marker..."
func validateTableFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return fmt.Errorf("failed to read header line from %s: %v", filename, scanner.Err())
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) < 2 || !strings.Contains(fields[0], "*") {
		return fmt.Errorf("%s does not start with a wildcard table line", filename)
	}
	log.Debugf("Table file %s validated", filename)
	return nil
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	if strings.ToLower(filepath.Ext(filename)) == ".wct" {
		if err := ValidateFileFormat(filename, FormatTable); err != nil {
			return FormatUnknown, err
		}
		return FormatTable, nil
	}
	if err := ValidateFileFormat(filename, FormatText); err != nil {
		return FormatUnknown, fmt.Errorf("unable to detect format for file %s: %w", filename, err)
	}
	return FormatText, nil
}
