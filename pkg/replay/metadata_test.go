package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBuildInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		build  string
		branch string
	}{
		{
			name:   "both present",
			input:  "\x00\x01build: '118935'\x02branch: 'release-2.0'\x03",
			build:  "118935",
			branch: "release-2.0",
		},
		{
			name:  "build only",
			input: "prefix build: '99' suffix",
			build: "99",
		},
		{
			name:   "empty values",
			input:  "build: ''branch: ''",
			build:  "",
			branch: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := ExtractBuildInfo([]byte(tt.input))

			require.NotNil(t, info.Build)
			assert.Equal(t, tt.build, *info.Build)

			if tt.name == "build only" {
				assert.Nil(t, info.Branch)

				return
			}

			require.NotNil(t, info.Branch)
			assert.Equal(t, tt.branch, *info.Branch)
		})
	}
}

func TestExtractBuildInfoMissingAnchors(t *testing.T) {
	t.Parallel()

	info := ExtractBuildInfo([]byte("nothing to see here"))

	assert.Nil(t, info.Build)
	assert.Nil(t, info.Branch)

	// An opening quote without a closing one captures nothing.
	info = ExtractBuildInfo([]byte("build: '12345"))

	assert.Nil(t, info.Build)
}

func TestExtractBuildInfoSurvivesInvalidUTF8(t *testing.T) {
	t.Parallel()

	buf := []byte("\xff\xfebuild: '777'\xff")

	info := ExtractBuildInfo(buf)

	require.NotNil(t, info.Build)
	assert.Equal(t, "777", *info.Build)
}

func TestExtractPlayerHandles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple handle",
			input: "\x00Player#1234\x00",
			want:  []string{"Player#1234"},
		},
		{
			name:  "deduplicated and sorted",
			input: "Bravo#111 Alpha#222 Bravo#111",
			want:  []string{"Alpha#222", "Bravo#111"},
		},
		{
			name:  "underscores count as word characters",
			input: "a_b#1234",
			want:  []string{"a_b#1234"},
		},
		{
			name:  "adjacent handles split by punctuation",
			input: "Alpha#123,Beta#456",
			want:  []string{"Alpha#123", "Beta#456"},
		},
		{
			name:  "name too short",
			input: "ab#1234",
			want:  nil,
		},
		{
			name:  "name too long",
			input: "abcdefghijklmnopqrstu#1234",
			want:  nil,
		},
		{
			name:  "too few digits",
			input: "Player#12",
			want:  nil,
		},
		{
			name:  "too many digits",
			input: "Player#1234567",
			want:  nil,
		},
		{
			name:  "trailing word byte disqualifies",
			input: "xxPlayer#123yy",
			want:  nil,
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handles := ExtractPlayerHandles([]byte(tt.input))

			if tt.want == nil {
				assert.Empty(t, handles)

				return
			}

			assert.Equal(t, tt.want, handles)
		})
	}
}

func TestExtractPlayerHandlesAtBufferEdges(t *testing.T) {
	t.Parallel()

	// A handle ending exactly at the buffer end still matches.
	handles := ExtractPlayerHandles([]byte("Edge#999"))

	assert.Equal(t, []string{"Edge#999"}, handles)
}
