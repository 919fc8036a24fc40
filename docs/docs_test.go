package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexandro/organize-mcp/detect"
	"github.com/lexandro/organize-mcp/scan"
)

func record(rel string) scan.FileRecord {
	return scan.NewFileRecord("/src/"+rel, rel, 1)
}

func pythonGroup() *detect.ProjectGroup {
	return &detect.ProjectGroup{
		Name:        "data_tools",
		Files:       []scan.FileRecord{record("main.py"), record("utils.py"), record("data.csv"), record("notes")},
		Language:    "Python",
		Description: "Multi-file Python project",
	}
}

func Test_IgnoreFile_PythonVsUnknown(t *testing.T) {
	python := IgnoreFile("Python")
	cobol := IgnoreFile("COBOL")

	assert.True(t, strings.HasPrefix(python, cobol), "python block must extend the base block")
	assert.Contains(t, python, "__pycache__/")
	assert.NotContains(t, cobol, "__pycache__/")
	assert.Contains(t, cobol, ".DS_Store")
	assert.Contains(t, cobol, "*.log")
	assert.Contains(t, cobol, ".env")
}

func Test_IgnoreFile_ExactMatchOnly(t *testing.T) {
	assert.Equal(t, IgnoreFile("COBOL"), IgnoreFile("python"))
	assert.Equal(t, IgnoreFile("COBOL"), IgnoreFile("mixed"))
	assert.Contains(t, IgnoreFile("JavaScript"), "node_modules/")
	assert.Contains(t, IgnoreFile("Java"), "*.class")
	assert.NotContains(t, IgnoreFile("Java"), "npm-debug.log*")
}

func Test_IgnoreFile_BaseCoversBuildOutput(t *testing.T) {
	for _, lang := range []string{"Go", "Rust", "C", "mixed"} {
		text := IgnoreFile(lang)
		for _, entry := range []string{"/dist/", "/build/", "/out/", "node_modules/", "vendor/"} {
			assert.Contains(t, text, entry+"\n", "%s missing %s", lang, entry)
		}
	}
}

func Test_Synthesizer_Readme(t *testing.T) {
	s := NewSynthesizer(Config{Username: "octo"})
	readme := s.Readme("data_tools", pythonGroup())

	assert.True(t, strings.HasPrefix(readme, "# Data Tools\n"))
	assert.Contains(t, readme, "## Description\nMulti-file Python project\n")
	assert.Contains(t, readme, "- **Primary Language**: Python")
	assert.Contains(t, readme, "- **Total Files**: 4")
	assert.Contains(t, readme, "- **Code Files**: 2")
	assert.Contains(t, readme, "- **Data Files**: 1")
	assert.Contains(t, readme, "- `main.py` - Python file")
	assert.Contains(t, readme, "- `data.csv` - Data file (.csv)")
	assert.Contains(t, readme, "pip install -r requirements.txt")
	assert.Contains(t, readme, "git clone https://github.com/octo/data_tools.git")
	assert.Contains(t, readme, "- GitHub: [@octo](https://github.com/octo)")
	assert.NotContains(t, readme, "`notes`")
}

func Test_Synthesizer_ReadmeJavaScriptAndOther(t *testing.T) {
	s := NewSynthesizer(Config{Username: "octo"})

	js := s.Readme("web", &detect.ProjectGroup{Files: []scan.FileRecord{record("index.js")}, Language: "JavaScript"})
	assert.Contains(t, js, "npm install")
	assert.NotContains(t, js, "### Data Files")

	other := s.Readme("misc", &detect.ProjectGroup{Files: []scan.FileRecord{record("a.png")}, Language: "mixed"})
	assert.Contains(t, other, "Refer to the specific mixed documentation")
	assert.NotContains(t, other, "### Code Files")
}

func Test_Synthesizer_GettingStartedLayout(t *testing.T) {
	s := NewSynthesizer(Config{Username: "octo"})

	python := s.gettingStarted("tool", "Python")
	assert.True(t, strings.HasPrefix(python, "- Python 3.7 or higher\n- pip for package management\n\n### Installation\n"))
	assert.Contains(t, python, "```bash\ngit clone https://github.com/octo/tool.git\ncd tool\n\n# Install dependencies")
	assert.True(t, strings.HasSuffix(python, "python main.py  # Adjust filename as needed\n```\n"))

	other := s.gettingStarted("tool", "Go")
	assert.Equal(t, "\n### Installation\n```bash\ngit clone https://github.com/octo/tool.git\ncd tool\n```\n\n"+
		"### Usage\nRefer to the specific Go documentation for running instructions.\n", other)
}

func Test_Synthesizer_DefaultUsername(t *testing.T) {
	readme := NewSynthesizer(Config{}).Readme("x", pythonGroup())
	assert.Contains(t, readme, "https://github.com/"+DefaultUsername+"/x.git")
}

func Test_Synthesizer_Deterministic(t *testing.T) {
	s := NewSynthesizer(Config{Username: "octo"})
	assert.Equal(t, s.Readme("a", pythonGroup()), s.Readme("a", pythonGroup()))
}

func Test_DescriptionFromReadme(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"section", "# T\n\n## Description\n\n  Parses logs  \n## Next", "Parses logs", true},
		{"crlf", "# T\r\n## Description\r\nWindows text\r\n", "Windows text", true},
		{"fallback line", "# Title\nshort\nA longer line describing things", "A longer line describing things", true},
		{"nothing", "# Title\n## Usage\n", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DescriptionFromReadme(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
