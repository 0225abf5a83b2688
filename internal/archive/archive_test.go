package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinspect/zinspect/internal/errors"
)

type entry struct {
	name string
	body string
}

func buildZip(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeBundle(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRead(t *testing.T) {
	data := buildZip(t,
		entry{"diag/", ""},
		entry{"diag/0_version.txt", "20250809\n"},
		entry{"diag/vmstat.txt", "\ufeff1 2 3\n"},
	)

	members, err := Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, members, 3)

	assert.Equal(t, Member{Name: "diag/", IsDir: true}, members[0])
	assert.Equal(t, "diag/0_version.txt", members[1].Name)
	assert.Equal(t, "1 2 3\n", members[2].Text, "byte order mark is dropped")
}

func TestRead_NotZip(t *testing.T) {
	data := []byte("definitely not a zip")
	_, err := Read(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrArchive))
}

func TestOpen(t *testing.T) {
	data := buildZip(t, entry{"free.txt", "Mem: 1 2 3 4 5 6\n"})

	t.Run("reads bundle", func(t *testing.T) {
		members, err := Open(writeBundle(t, "bundle.ZIP", data), 0)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "free.txt", members[0].Name)
	})

	t.Run("rejects other extensions", func(t *testing.T) {
		_, err := Open(writeBundle(t, "bundle.tar.gz", data), 0)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrInput))
	})

	t.Run("rejects oversized bundle", func(t *testing.T) {
		_, err := Open(writeBundle(t, "bundle.zip", data), 10)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrInput))
		assert.Contains(t, err.Error(), "limit is 10")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope.zip"), 0)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrInput))
	})
}

func TestCollectorVersion(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		raw     string
		version int
		wantErr bool
	}{
		{"single line", "20250809\n", "20250809", 20250809, false},
		{"comments and blanks", "# zdiag\n\n20250901\n\n", "20250901", 20250901, false},
		{"last line wins", "20240101\n20250809\n", "20250809", 20250809, false},
		{"trailing words", "20250809 build 3\n", "20250809 build 3", 20250809, false},
		{"only comments", "# nothing\n", "", 0, true},
		{"not a number", "v2\n", "v2", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, n, err := CollectorVersion(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrVersion))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, raw)
			assert.Equal(t, tt.version, n)
		})
	}
}

func TestValidateCollectorVersion(t *testing.T) {
	tests := []struct {
		name        string
		members     []Member
		wantRaw     string
		errContains string
	}{
		{
			name:    "current collector",
			members: []Member{{Name: "x/0_version.txt", Text: "20250809\n"}},
			wantRaw: "20250809",
		},
		{
			name:        "old collector",
			members:     []Member{{Name: "0_version.txt", Text: "20240101\n"}},
			wantRaw:     "20240101",
			errContains: "too old",
		},
		{
			name:        "no version file",
			members:     []Member{{Name: "vmstat.txt", Text: "1"}},
			errContains: "not found",
		},
		{
			name:        "directory named like the version file is ignored",
			members:     []Member{{Name: "0_version.txt", IsDir: true}},
			errContains: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ValidateCollectorVersion(tt.members, MinCollectorVersion)
			assert.Equal(t, tt.wantRaw, raw)
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrVersion))
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
