package ai

import (
	"bytes"
	"text/template"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
)

// Language selects the instruction language of the prompt.
type Language string

const (
	LanguagePortuguese Language = "pt"
	LanguageEnglish    Language = "en"
)

// Languages lists the supported languages in the order they are offered.
var Languages = []Language{LanguagePortuguese, LanguageEnglish}

// Label returns a display name for the language.
func (l Language) Label() string {
	switch l {
	case LanguagePortuguese:
		return "Português"
	case LanguageEnglish:
		return "English"
	default:
		return string(l)
	}
}

// ParseLanguage validates a language code.
func ParseLanguage(code string) (Language, error) {
	for _, l := range Languages {
		if string(l) == code {
			return l, nil
		}
	}
	return "", apperrors.NewUnsupportedLanguageError(code)
}

type promptTemplate struct {
	instruction string
	format      string
}

var promptTemplates = map[Language]promptTemplate{
	LanguagePortuguese: {
		instruction: `Você é um gerador de mensagens de commit.
Baseado no seguinte diff de código, gere um título de commit no padrão "fix: ..." ou "feat: ...", e uma lista de bullet points curtos explicando as mudanças.
`,
		format: `Responda apenas com o commit no formato:

<tipo>: <título>

- ponto 1
- ponto 2
...
`,
	},
	LanguageEnglish: {
		instruction: `You are a commit message generator.
Based on the following code diff, generate a commit title in the pattern "fix: ..." or "feat: ...", and a list of short bullet points explaining the changes.
`,
		format: `Respond only with the commit in the format:

<type>: <title>

- point 1
- point 2
...
`,
	},
}

// promptLayout embeds the diff verbatim; text/template does not escape.
var promptLayout = template.Must(template.New("prompt").Parse(`{{.Instruction}}
Diff:
{{.Diff}}

{{.Format}}`))

type promptData struct {
	Instruction string
	Diff        string
	Format      string
}

// FormatInstruction returns the literal output-format instruction the prompt ends with.
func FormatInstruction(lang Language) (string, error) {
	tmpl, ok := promptTemplates[lang]
	if !ok {
		return "", apperrors.NewUnsupportedLanguageError(string(lang))
	}
	return tmpl.format, nil
}

// BuildPrompt renders the generation prompt for diff in lang. The result is
// deterministic, contains diff unchanged and ends with FormatInstruction(lang).
func BuildPrompt(diff string, lang Language) (string, error) {
	tmpl, ok := promptTemplates[lang]
	if !ok {
		return "", apperrors.NewUnsupportedLanguageError(string(lang))
	}

	var buf bytes.Buffer
	if err := promptLayout.Execute(&buf, promptData{
		Instruction: tmpl.instruction,
		Diff:        diff,
		Format:      tmpl.format,
	}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
