package span

import "golang.org/x/text/unicode/norm"

// NormalizeIdent NFC-normalizes an identifier. Source text may spell the same
// identifier with different Unicode combining-mark sequences (e.g. a
// dimension name or module method written with a precomposed vs. decomposed
// accent); normalizing both spellings yields the same string. Mirrors the
// teacher's lexer-boundary NFC pass. The elaborator does not call it:
// identifiers from the surface AST are used as environment and registry keys
// exactly as spelled.
func NormalizeIdent(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}
