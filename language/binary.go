package language

import "bytes"

// sniffLen is how much of a file's head is checked for NUL bytes.
const sniffLen = 512

// IsBinaryContent reports whether data looks like binary content: a NUL byte
// within the first sniffLen bytes.
func IsBinaryContent(data []byte) bool {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	return bytes.IndexByte(head, 0) >= 0
}
