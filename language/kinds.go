package language

// codeExtensions are extensions treated as source or project text. Several of them
// (xml, md, txt) have no language label and classify as Unknown.
var codeExtensions = map[string]bool{
	"py": true, "js": true, "ts": true, "java": true, "cpp": true, "c": true,
	"cs": true, "php": true, "rb": true, "go": true, "rs": true, "swift": true,
	"kt": true, "scala": true, "r": true, "m": true, "pl": true, "sh": true,
	"sql": true, "html": true, "css": true, "xml": true, "json": true,
	"yaml": true, "yml": true, "md": true, "txt": true, "ipynb": true,
}

// dataExtensions are documents, images and archives that travel with a project.
var dataExtensions = map[string]bool{
	"csv": true, "xlsx": true, "pdf": true, "docx": true, "pptx": true,
	"png": true, "jpg": true, "jpeg": true, "gif": true, "svg": true,
	"zip": true, "tar": true, "gz": true,
}

// IsCode reports whether files with this extension count as code.
func IsCode(extension string) bool {
	return codeExtensions[normalizeExtension(extension)]
}

// IsData reports whether files with this extension count as data assets.
func IsData(extension string) bool {
	return dataExtensions[normalizeExtension(extension)]
}
