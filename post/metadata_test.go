package post

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMetadata(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	tests := []struct {
		name  string
		block string
		want  Metadata
	}{
		{
			name:  "all fields",
			block: "title = \"Hello\"\ndate = \"2024-03-01\"\nhidden = true\n",
			want:  Metadata{Title: "Hello", Date: day(2024, time.March, 1), Hidden: true},
		},
		{
			name:  "empty block uses defaults",
			block: "",
			want:  Metadata{Title: "file_name", Date: Epoch},
		},
		{
			name:  "invalid calendar date",
			block: "title = \"Feb\"\ndate = \"2023-02-30\"\n",
			want:  Metadata{Title: "Feb", Date: Epoch},
		},
		{
			name:  "wrong date format",
			block: "date = \"01/03/2024\"\n",
			want:  Metadata{Title: "file_name", Date: Epoch},
		},
		{
			name:  "date with wrong type",
			block: "date = 20240301\n",
			want:  Metadata{Title: "file_name", Date: Epoch},
		},
		{
			name:  "native toml date",
			block: "date = 2024-03-01\n",
			want:  Metadata{Title: "file_name", Date: day(2024, time.March, 1)},
		},
		{
			name:  "hidden with wrong type",
			block: "hidden = \"yes\"\n",
			want:  Metadata{Title: "file_name", Date: Epoch},
		},
		{
			name:  "title with wrong type",
			block: "title = 42\n",
			want:  Metadata{Title: "file_name", Date: Epoch},
		},
		{
			name:  "unknown keys ignored",
			block: "tags = [\"go\"]\ntitle = \"Tagged\"\n",
			want:  Metadata{Title: "Tagged", Date: Epoch},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMetadata(tt.block, "file_name")
			require.NoError(t, err)
			assert.Equal(t, tt.want.Title, got.Title)
			assert.True(t, tt.want.Date.Equal(got.Date), "date %v, want %v", got.Date, tt.want.Date)
			assert.Equal(t, tt.want.Hidden, got.Hidden)
		})
	}
}

func TestResolveMetadataBadTOML(t *testing.T) {
	_, err := ResolveMetadata("title = \"unterminated\n", "broken.md")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadFrontMatter))
	assert.Contains(t, err.Error(), "broken.md")
}
