package docs

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lexandro/organize-mcp/detect"
)

const codeFence = "```"

// DefaultUsername is used in generated text when no GitHub user is configured.
const DefaultUsername = "your-github-username"

// Config holds the values the synthesizer puts into generated documents.
type Config struct {
	Username string
}

// Synthesizer renders README and .gitignore text for project groups.
// It does no I/O.
type Synthesizer struct {
	config Config
	title  cases.Caser
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(config Config) *Synthesizer {
	if config.Username == "" {
		config.Username = DefaultUsername
	}
	return &Synthesizer{config: config, title: cases.Title(language.Und)}
}

// Title turns a project name like "data_tools" into "Data Tools".
func (s *Synthesizer) Title(name string) string {
	return s.title.String(strings.ReplaceAll(name, "_", " "))
}

// Readme renders the README.md for a group published under name.
func (s *Synthesizer) Readme(name string, group *detect.ProjectGroup) string {
	code := group.CodeFiles()
	data := group.DataFiles()

	var b strings.Builder
	b.WriteString(heredoc.Docf(`
		# %s

		## Description
		%s

		## Project Details
		- **Primary Language**: %s
		- **Total Files**: %d
		- **Code Files**: %d
		- **Data Files**: %d

		## Files in this Project
		`,
		s.Title(name), group.Description, group.Language, len(group.Files), len(code), len(data)))

	if len(code) > 0 {
		b.WriteString("\n### Code Files\n")
		for _, f := range code {
			fmt.Fprintf(&b, "- `%s` - %s file\n", f.Name, f.Language())
		}
	}
	if len(data) > 0 {
		b.WriteString("\n### Data Files\n")
		for _, f := range data {
			fmt.Fprintf(&b, "- `%s` - Data file (%s)\n", f.Name, f.Extension)
		}
	}

	fmt.Fprintf(&b, "\n## Getting Started\n\n### Prerequisites\n- %s runtime environment\n", group.Language)
	b.WriteString(s.gettingStarted(name, group.Language))

	b.WriteString("\n")
	b.WriteString(heredoc.Docf(`
		## Contributing
		1. Fork the repository
		2. Create a feature branch (`+"`git checkout -b feature/amazing-feature`"+`)
		3. Commit your changes (`+"`git commit -m 'Add some amazing feature'`"+`)
		4. Push to the branch (`+"`git push origin feature/amazing-feature`"+`)
		5. Open a Pull Request

		## License
		This project is licensed under the MIT License.

		## Author
		**%[1]s**
		- GitHub: [@%[1]s](https://github.com/%[1]s)

		---
		*Organized and published using organize-mcp*
		`, s.config.Username))
	return b.String()
}

func (s *Synthesizer) gettingStarted(name string, lang string) string {
	clone := fmt.Sprintf("git clone https://github.com/%s/%s.git\ncd %s", s.config.Username, name, name)

	switch lang {
	case "Python":
		return heredoc.Docf(`
			- Python 3.7 or higher
			- pip for package management

			### Installation
			%[1]sbash
			%[2]s

			# Install dependencies (if requirements.txt exists)
			pip install -r requirements.txt
			%[1]s

			### Usage
			%[1]sbash
			python main.py  # Adjust filename as needed
			%[1]s
			`, codeFence, clone)
	case "JavaScript":
		return heredoc.Docf(`
			- Node.js and npm

			### Installation
			%[1]sbash
			%[2]s

			# Install dependencies
			npm install
			%[1]s

			### Usage
			%[1]sbash
			node index.js  # Adjust filename as needed
			%[1]s
			`, codeFence, clone)
	}
	return "\n" + heredoc.Docf(`
		### Installation
		%[1]sbash
		%[2]s
		%[1]s

		### Usage
		Refer to the specific %[3]s documentation for running instructions.
		`, codeFence, clone, lang)
}
