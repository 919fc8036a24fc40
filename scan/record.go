package scan

import (
	"path/filepath"
	"strings"

	"github.com/lexandro/organize-mcp/language"
)

// FileRecord describes one file found by the scanner. It is not modified after the scan.
type FileRecord struct {
	Path         string // Absolute file path
	RelativePath string // Path relative to the scan root (forward slashes)
	Name         string // Base file name
	Extension    string // Lowercased extension with leading dot, "" if none
	SizeBytes    int64  // File size in bytes
	Directory    string // Containing directory relative to the scan root, "" for the root itself
	IsCode       bool
	IsData       bool
}

// NewFileRecord builds a record for a file at absolutePath found under a scan root.
// relativePath must use forward slashes.
func NewFileRecord(absolutePath string, relativePath string, sizeBytes int64) FileRecord {
	name := filepath.Base(absolutePath)
	ext := strings.ToLower(extension(name))

	dir := ""
	if idx := strings.LastIndex(relativePath, "/"); idx >= 0 {
		dir = relativePath[:idx]
	}

	return FileRecord{
		Path:         absolutePath,
		RelativePath: relativePath,
		Name:         name,
		Extension:    ext,
		SizeBytes:    sizeBytes,
		Directory:    dir,
		IsCode:       language.IsCode(ext),
		IsData:       language.IsData(ext),
	}
}

// BaseName returns the file name without its extension.
func (r FileRecord) BaseName() string {
	return strings.TrimSuffix(r.Name, extension(r.Name))
}

// extension is filepath.Ext except that leading dots belong to the name, so
// ".py" and "..env" have no extension.
func extension(name string) string {
	if !strings.Contains(strings.TrimLeft(name, "."), ".") {
		return ""
	}
	return filepath.Ext(name)
}

// Language returns the classifier label for the record's extension.
func (r FileRecord) Language() string {
	return language.Classify(r.Extension)
}
