package replay

// DefaultMinStringLength is the shortest printable run reported by
// ExtractStrings when the caller passes a non-positive minimum.
const DefaultMinStringLength = 4

// Printable ASCII range recognized by ExtractStrings.
const (
	printableLow  = 0x20
	printableHigh = 0x7e
)

// ExtractStrings returns every maximal run of printable ASCII bytes in buf
// that is at least minLen bytes long, in buffer order.
func ExtractStrings(buf []byte, minLen int) []string {
	if minLen <= 0 {
		minLen = DefaultMinStringLength
	}

	var runs []string

	start := -1

	for i, b := range buf {
		if b >= printableLow && b <= printableHigh {
			if start < 0 {
				start = i
			}

			continue
		}

		if start >= 0 && i-start >= minLen {
			runs = append(runs, string(buf[start:i]))
		}

		start = -1
	}

	if start >= 0 && len(buf)-start >= minLen {
		runs = append(runs, string(buf[start:]))
	}

	return runs
}
