package replay

import "unicode/utf8"

// Bounds of the segment probe window. A candidate object must close at least
// minLookahead bytes after its opening brace and within maxWindow bytes of it.
// Both are fixed constants of the scanning policy.
const (
	minLookahead = 10
	maxWindow    = 5000
)

// Segment is a structured-data object recovered from a byte range of a
// replay file. Start and End are inclusive offsets into the scanned buffer.
type Segment struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Value Value `json:"content"`
}

// Scan locates candidate embedded JSON objects in buf. For every opening
// brace at offset i it probes closing braces j in [i+minLookahead,
// i+maxWindow) in increasing order; the first j where buf[i..j] is valid
// UTF-8 and parses as a complete object wins. Parse failures are misses, not
// errors. Scanning always resumes at i+1, so starts inside an already matched
// segment may yield further (nested or spurious) segments; that overlap is
// the documented policy. The probe window is constant, keeping the whole scan
// effectively linear in len(buf).
func Scan(buf []byte) []Segment {
	var segments []Segment

	for i := 0; i < len(buf); i++ {
		if buf[i] != '{' {
			continue
		}

		for j := i + minLookahead; j < i+maxWindow && j < len(buf); j++ {
			if buf[j] != '}' {
				continue
			}

			candidate := buf[i : j+1]
			if !utf8.Valid(candidate) {
				continue
			}

			value, err := ParseValue(candidate)
			if err != nil || value.Kind != KindObject {
				continue
			}

			segments = append(segments, Segment{Start: i, End: j, Value: value})

			break
		}
	}

	return segments
}
