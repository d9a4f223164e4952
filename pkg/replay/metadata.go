package replay

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Literal prefixes that anchor build metadata inside a replay's byte stream.
const (
	buildPrefix  = "build: '"
	branchPrefix = "branch: '"
)

// Player handle shape: 3-20 word characters, '#', 3-6 digits, with word
// boundaries on both sides.
const (
	handleNameMin  = 3
	handleNameMax  = 20
	handleDigitMin = 3
	handleDigitMax = 6
)

// BuildInfo holds the game build and branch strings recovered from a replay,
// when present. A missing prefix leaves the field nil; absence is expected,
// never an error.
type BuildInfo struct {
	Build  *string `json:"build"`
	Branch *string `json:"branch"`
}

// ExtractBuildInfo lossily decodes buf to text and captures the single-quoted
// values following the "build: '" and "branch: '" prefixes.
func ExtractBuildInfo(buf []byte) BuildInfo {
	text := lossyDecode(buf)

	return BuildInfo{
		Build:  captureQuoted(text, buildPrefix),
		Branch: captureQuoted(text, branchPrefix),
	}
}

// captureQuoted returns the text between the first occurrence of prefix and
// the next single quote, or nil when either anchor is missing.
func captureQuoted(text, prefix string) *string {
	start := strings.Index(text, prefix)
	if start < 0 {
		return nil
	}

	rest := text[start+len(prefix):]

	end := strings.IndexByte(rest, '\'')
	if end < 0 {
		return nil
	}

	captured := rest[:end]

	return &captured
}

// ExtractPlayerHandles scans raw bytes for player handles and returns them
// deduplicated and sorted lexicographically. The scan is an explicit
// tokenizer equivalent to the pattern \b\w{3,20}#\d{3,6}\b over ASCII bytes:
// a maximal word-character run of 3-20 bytes, a '#', then a maximal digit run
// of 3-6 bytes. Matches are non-overlapping, taken left to right.
func ExtractPlayerHandles(buf []byte) []string {
	seen := make(map[string]struct{})

	i := 0
	for i < len(buf) {
		if !isWordByte(buf[i]) || (i > 0 && isWordByte(buf[i-1])) {
			i++

			continue
		}

		// i starts a maximal word run.
		runEnd := i
		for runEnd < len(buf) && isWordByte(buf[runEnd]) {
			runEnd++
		}

		handleEnd, ok := matchHandle(buf, i, runEnd)
		if !ok {
			i = runEnd

			continue
		}

		seen[string(buf[i:handleEnd])] = struct{}{}
		i = handleEnd
	}

	handles := make([]string, 0, len(seen))
	for handle := range seen {
		handles = append(handles, handle)
	}

	sort.Strings(handles)

	return handles
}

// matchHandle checks whether the word run buf[start:runEnd] is followed by
// '#' and a qualifying digit run. It returns the exclusive end offset of the
// full handle.
func matchHandle(buf []byte, start, runEnd int) (int, bool) {
	nameLen := runEnd - start
	if nameLen < handleNameMin || nameLen > handleNameMax {
		return 0, false
	}

	if runEnd >= len(buf) || buf[runEnd] != '#' {
		return 0, false
	}

	digitsEnd := runEnd + 1
	for digitsEnd < len(buf) && isDigitByte(buf[digitsEnd]) {
		digitsEnd++
	}

	digitLen := digitsEnd - runEnd - 1
	if digitLen < handleDigitMin || digitLen > handleDigitMax {
		return 0, false
	}

	// Trailing boundary: a word byte right after the digits disqualifies the
	// match (it would extend the run past the allowed digit count).
	if digitsEnd < len(buf) && isWordByte(buf[digitsEnd]) {
		return 0, false
	}

	return digitsEnd, true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

// lossyDecode converts buf to a string, replacing every byte that is not part
// of a valid UTF-8 sequence with U+FFFD.
func lossyDecode(buf []byte) string {
	if utf8.Valid(buf) {
		return string(buf)
	}

	var sb strings.Builder

	sb.Grow(len(buf))

	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.Write(buf[:size])
		}

		buf = buf[size:]
	}

	return sb.String()
}
