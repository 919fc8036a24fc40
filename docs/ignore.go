package docs

import "github.com/MakeNowJust/heredoc/v2"

var baseIgnore = heredoc.Doc(`
	# OS generated files
	.DS_Store
	.DS_Store?
	._*
	.Spotlight-V100
	.Trashes
	ehthumbs.db
	Thumbs.db

	# Editor files
	*.swp
	*.swo
	*~
	.vscode/
	.idea/

	# Logs
	*.log

	# Environment variables
	.env
	.env.local
	.env.*.local

	# Build output
	/dist/
	/build/
	/out/

	# Dependencies
	node_modules/
	vendor/
	`)

// languageIgnore holds the extra block per dominant language. Keys match
// classifier labels exactly.
var languageIgnore = map[string]string{
	"Python": heredoc.Doc(`

		# Python
		__pycache__/
		*.py[cod]
		*$py.class
		*.so
		.Python
		build/
		develop-eggs/
		dist/
		downloads/
		eggs/
		.eggs/
		lib/
		lib64/
		parts/
		sdist/
		var/
		wheels/
		*.egg-info/
		.installed.cfg
		*.egg
		MANIFEST
		.pytest_cache/
		.coverage
		htmlcov/
		.tox/
		.venv/
		venv/
		env/
		ENV/
		.ipynb_checkpoints
		`),
	"JavaScript": heredoc.Doc(`

		# Node.js
		node_modules/
		npm-debug.log*
		yarn-debug.log*
		yarn-error.log*
		.npm
		.eslintcache
		dist/
		build/
		`),
	"Java": heredoc.Doc(`

		# Java
		*.class
		*.jar
		*.war
		*.ear
		target/
		.gradle/
		build/
		`),
}

// IgnoreFile renders .gitignore text for a project whose dominant language is lang.
// Languages without a dedicated block get the base block only.
func IgnoreFile(lang string) string {
	return baseIgnore + languageIgnore[lang]
}

// IgnoreFile is the method form of the package-level IgnoreFile.
func (s *Synthesizer) IgnoreFile(lang string) string {
	return IgnoreFile(lang)
}
