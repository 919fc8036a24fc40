package language

import "testing"

func Test_IsBinaryContent_SourceText(t *testing.T) {
	content := []byte("import utils\n\ndef main():\n    utils.run()\n")
	if IsBinaryContent(content) {
		t.Error("expected source text to not be detected as binary")
	}
}

func Test_IsBinaryContent_ImageHeader(t *testing.T) {
	content := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	if !IsBinaryContent(content) {
		t.Error("expected PNG header to be detected as binary")
	}
}

func Test_IsBinaryContent_Empty(t *testing.T) {
	if IsBinaryContent(nil) {
		t.Error("expected empty content to not be detected as binary")
	}
}

func Test_IsBinaryContent_NulPastSniffWindow(t *testing.T) {
	content := make([]byte, sniffLen+10)
	for i := range content {
		content[i] = 'a'
	}
	content[sniffLen+5] = 0x00
	if IsBinaryContent(content) {
		t.Error("expected NUL outside the sniff window to be ignored")
	}
	content[sniffLen-1] = 0x00
	if !IsBinaryContent(content) {
		t.Error("expected NUL inside the sniff window to be detected")
	}
}
