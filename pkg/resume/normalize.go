package resume

import (
	"regexp"
	"strings"
)

var (
	anySpaceRun   = regexp.MustCompile(`[\s\p{Z}\x{FEFF}]+`)
	nonASCII      = regexp.MustCompile(`[^\x00-\x7F]`)
	asciiSpaceRun = regexp.MustCompile(`\s+`)
)

// Normalize colapsa cada secuencia de espacios a uno, elimina caracteres no ASCII y recorta.
// Los espacios Unicode (NBSP, etc.) cuentan como espacio antes de eliminar lo no ASCII.
// Es idempotente.
func Normalize(text string) string {
	text = anySpaceRun.ReplaceAllString(text, " ")
	text = nonASCII.ReplaceAllString(text, "")
	text = asciiSpaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
