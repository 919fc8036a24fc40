package language

import "testing"

func Test_Classify_KnownExtensions(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".py", "Python"},
		{".js", "JavaScript"},
		{".java", "Java"},
		{".rb", "Ruby"},
		{".yml", "YAML"},
		{".ipynb", "Jupyter Notebook"},
		{"go", "Go"},
	}

	for _, tt := range tests {
		if got := Classify(tt.ext); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func Test_Classify_CaseInsensitive(t *testing.T) {
	for _, ext := range []string{".PY", ".Py", "PY", ".py"} {
		if got := Classify(ext); got != "Python" {
			t.Errorf("Classify(%q) = %q, want Python", ext, got)
		}
	}
}

func Test_Classify_UnknownExtension(t *testing.T) {
	for _, ext := range []string{".xyz", "", ".", ".md", ".txt", ".cob"} {
		if got := Classify(ext); got != Unknown {
			t.Errorf("Classify(%q) = %q, want %q", ext, got, Unknown)
		}
	}
}

func Test_Classify_Deterministic(t *testing.T) {
	for ext := range ExtensionToLanguage {
		first := Classify(ext)
		for i := 0; i < 3; i++ {
			if got := Classify("." + ext); got != first {
				t.Fatalf("Classify(%q) not stable: %q then %q", ext, first, got)
			}
		}
	}
}

func Test_DetectLanguage_Path(t *testing.T) {
	if lang := DetectLanguage("src/app/Main.JAVA"); lang != "Java" {
		t.Errorf("expected Java, got %s", lang)
	}
	if lang := DetectLanguage("Makefile"); lang != Unknown {
		t.Errorf("expected Unknown, got %s", lang)
	}
}

func Test_IsCode_IsData(t *testing.T) {
	if !IsCode(".py") || !IsCode(".MD") || !IsCode("txt") {
		t.Error("expected py, md and txt to be code")
	}
	if IsCode(".csv") {
		t.Error("expected csv to not be code")
	}
	if !IsData(".csv") || !IsData(".PNG") {
		t.Error("expected csv and png to be data")
	}
	if IsData(".py") {
		t.Error("expected py to not be data")
	}
}
