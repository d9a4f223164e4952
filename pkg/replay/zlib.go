package replay

import (
	"bytes"
	"compress/zlib"
	"io"
)

// Probe window for zlib streams. A stream must span at least zlibMinLookahead
// bytes and at most zlibMaxWindow bytes from its marker.
const (
	zlibMinLookahead = 100
	zlibMaxWindow    = 50000
)

// zlibMarker is the two-byte header of a default-compression zlib stream.
var zlibMarker = []byte{0x78, 0x9c}

// ZlibChunk is a compressed region recovered from a replay. Start and End are
// inclusive offsets of the attempted stream; Data holds the inflated bytes.
type ZlibChunk struct {
	Start int
	End   int
	Data  []byte
}

// ScanZlib locates zlib-compressed regions in buf. For every marker at offset
// i it tries inflating buf[i:j] for j in [i+zlibMinLookahead, i+zlibMaxWindow)
// in increasing order; the first prefix that inflates cleanly wins. Inflate
// failures are misses.
func ScanZlib(buf []byte) []ZlibChunk {
	var chunks []ZlibChunk

	for i := 0; i+len(zlibMarker) <= len(buf); i++ {
		if !bytes.Equal(buf[i:i+len(zlibMarker)], zlibMarker) {
			continue
		}

		// j may reach len(buf), so a stream that ends exactly at the buffer
		// end is still recovered.
		for j := i + zlibMinLookahead; j < i+zlibMaxWindow && j <= len(buf); j++ {
			data, ok := inflate(buf[i:j])
			if !ok {
				continue
			}

			chunks = append(chunks, ZlibChunk{Start: i, End: j - 1, Data: data})

			break
		}
	}

	return chunks
}

// inflate decompresses a complete zlib stream, reporting false on any error.
func inflate(chunk []byte) ([]byte, bool) {
	reader, err := zlib.NewReader(bytes.NewReader(chunk))
	if err != nil {
		return nil, false
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, false
	}

	return data, true
}
