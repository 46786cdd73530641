package resume

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Abraxas-365/recruitdesk/pkg/ptrx"
)

// Field agrupa los patrones que compiten por el mismo dato.
// FieldLocation llena ciudad y estado juntos.
type Field string

const (
	FieldName       Field = "name"
	FieldEmail      Field = "email"
	FieldMobile     Field = "mobile"
	FieldJobTitle   Field = "current_job_title"
	FieldExperience Field = "experience_years"
	FieldLocation   Field = "location"
)

// ApplyFunc receives the text and the submatch indices of a successful match.
// It returns false when the match yields no usable value, letting the next
// pattern for the same field try.
type ApplyFunc func(text string, match []int, out *ExtractedResumeFields) bool

// Matcher es un par (patrón, función de extracción)
type Matcher struct {
	Field   Field
	Pattern *regexp.Regexp
	Apply   ApplyFunc
}

// Extractor evalúa una lista ordenada de matchers; por campo gana el primero que aplica
type Extractor struct {
	matchers []Matcher
}

// NewExtractor crea un extractor con la lista dada. Nil usa DefaultMatchers.
func NewExtractor(matchers []Matcher) *Extractor {
	if matchers == nil {
		matchers = DefaultMatchers()
	}
	return &Extractor{matchers: matchers}
}

// With returns a new extractor with extra matchers appended after the existing ones
func (e *Extractor) With(extra ...Matcher) *Extractor {
	matchers := make([]Matcher, 0, len(e.matchers)+len(extra))
	matchers = append(matchers, e.matchers...)
	matchers = append(matchers, extra...)
	return &Extractor{matchers: matchers}
}

// Extract normaliza el texto y aplica los matchers. Nunca falla: lo que no se
// encuentra queda ausente.
func (e *Extractor) Extract(text string) ExtractedResumeFields {
	var out ExtractedResumeFields

	normalized := Normalize(text)
	if normalized == "" {
		return out
	}

	resolved := make(map[Field]bool, 6)
	for _, m := range e.matchers {
		if resolved[m.Field] {
			continue
		}
		loc := m.Pattern.FindStringSubmatchIndex(normalized)
		if loc == nil {
			continue
		}
		if m.Apply(normalized, loc, &out) {
			resolved[m.Field] = true
		}
	}
	return out
}

var defaultExtractor = NewExtractor(nil)

// Extract usa los matchers por defecto
func Extract(text string) ExtractedResumeFields {
	return defaultExtractor.Extract(text)
}

// ============================================================================
// Default matchers
// ============================================================================

// DefaultMatchers returns the built-in patterns, most specific first within each field
func DefaultMatchers() []Matcher {
	return []Matcher{
		// Email
		{FieldEmail, regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), wholeMatch(setEmail)},
		{FieldEmail, regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`), wholeMatch(setEmail)},

		// Mobile
		{FieldMobile, regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`), wholeMatch(setMobile)},
		{FieldMobile, regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`), wholeMatch(setMobile)},
		{FieldMobile, regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`), wholeMatch(setMobile)},

		// Name
		{FieldName, regexp.MustCompile(`^([A-Z][a-z]+ [A-Z][a-z]+)`), group(1, setName)},
		{FieldName, regexp.MustCompile(`(?i)Name:\s*([A-Z][a-z]+ [A-Z][a-z]+)`), group(1, setName)},

		// Current job title (solo con etiqueta explícita)
		{FieldJobTitle, regexp.MustCompile(`(?i)Current\s*(?:Job\s*)?(?:Title|Position):\s*([^\n]+)`), labelled(1, setJobTitle)},
		{FieldJobTitle, regexp.MustCompile(`(?i)Designation:\s*([^\n]+)`), labelled(1, setJobTitle)},
		{FieldJobTitle, regexp.MustCompile(`(?i)Current\s*Role:\s*([^\n]+)`), labelled(1, setJobTitle)},

		// Experience years
		{FieldExperience, regexp.MustCompile(`(?i)Total\s*Experience:\s*(\d+)\s*(?:years?|yrs?)`), group(1, setExperience)},
		{FieldExperience, regexp.MustCompile(`(?i)Years?\s*of\s*Experience:\s*(\d+)`), group(1, setExperience)},
		{FieldExperience, regexp.MustCompile(`(?i)Experience:\s*(\d+)\s*(?:years?|yrs?)`), group(1, setExperience)},

		// City / State
		{FieldLocation, regexp.MustCompile(`(?i)(?:Location|City):\s*([A-Za-z\s]+),\s*([A-Za-z\s]+)`), setLocation},
		{FieldLocation, regexp.MustCompile(`(?i)Address:\s*[^,]+,\s*([A-Za-z\s]+),\s*([A-Za-z\s]+)`), setLocation},
	}
}

// nextLabel marca dónde empieza el siguiente campo etiquetado. Tras normalizar no
// quedan saltos de línea, así que un valor "hasta fin de línea" se corta aquí.
var nextLabel = regexp.MustCompile(`(?i)(?:^|\s)(?:e-?mail|phone|mobile|tel|contact|name|location|city|state|address|total\s*experience|years?\s*of\s*experience|experience|designation|current\s*role|current\s*(?:job\s*)?(?:title|position)|skills|education|summary|objective|linkedin|website)\s*:`)

var leadingLetters = regexp.MustCompile(`^[A-Za-z\s]*`)

func submatch(text string, match []int, n int) string {
	if 2*n+1 >= len(match) || match[2*n] < 0 {
		return ""
	}
	return text[match[2*n]:match[2*n+1]]
}

// labelSeparators son los restos que quedan entre un valor y la etiqueta siguiente
const labelSeparators = " ,;|-"

// untilNextLabel returns the text from the start of group n up to the next label,
// without the separator that preceded that label
func untilNextLabel(text string, match []int, n int) string {
	if 2*n+1 >= len(match) || match[2*n] < 0 {
		return ""
	}
	tail := text[match[2*n]:]
	if loc := nextLabel.FindStringIndex(tail); loc != nil {
		tail = tail[:loc[0]]
	}
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(tail), labelSeparators))
}

func wholeMatch(set func(string, *ExtractedResumeFields) bool) ApplyFunc {
	return group(0, set)
}

func group(n int, set func(string, *ExtractedResumeFields) bool) ApplyFunc {
	return func(text string, match []int, out *ExtractedResumeFields) bool {
		return set(strings.TrimSpace(submatch(text, match, n)), out)
	}
}

func labelled(n int, set func(string, *ExtractedResumeFields) bool) ApplyFunc {
	return func(text string, match []int, out *ExtractedResumeFields) bool {
		return set(untilNextLabel(text, match, n), out)
	}
}

func setEmail(v string, out *ExtractedResumeFields) bool {
	if v == "" {
		return false
	}
	out.Email = ptrx.String(v)
	return true
}

func setMobile(v string, out *ExtractedResumeFields) bool {
	if v == "" {
		return false
	}
	out.Mobile = ptrx.String(v)
	return true
}

func setName(v string, out *ExtractedResumeFields) bool {
	if v == "" {
		return false
	}
	out.Name = ptrx.String(v)
	return true
}

func setJobTitle(v string, out *ExtractedResumeFields) bool {
	if v == "" {
		return false
	}
	out.CurrentJobTitle = ptrx.String(v)
	return true
}

func setExperience(v string, out *ExtractedResumeFields) bool {
	years, err := strconv.Atoi(v)
	if err != nil {
		return false
	}
	out.ExperienceYears = ptrx.Int(years)
	return true
}

// setLocation llena ciudad y estado de la misma coincidencia, o ninguno
func setLocation(text string, match []int, out *ExtractedResumeFields) bool {
	city := strings.TrimSpace(submatch(text, match, 1))
	state := strings.TrimSpace(leadingLetters.FindString(untilNextLabel(text, match, 2)))
	if city == "" || state == "" {
		return false
	}
	out.City = ptrx.String(city)
	out.State = ptrx.String(state)
	return true
}
