// Package archive reads diagnostic bundles from disk.
//
// A bundle is a ZIP file whose members are plain-text command output. The
// package decodes members into memory in archive order and checks the
// collector version before anything is parsed.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zinspect/zinspect/internal/errors"
)

const (
	// DefaultMaxSize is the largest bundle accepted by Open, in bytes.
	DefaultMaxSize int64 = 50 * 1024 * 1024
	// MaxMemberSize caps the decompressed size of a single member.
	MaxMemberSize int64 = 256 * 1024 * 1024
	// Extension is the only bundle extension accepted by Open.
	Extension = ".zip"
)

const utf8BOM = "\ufeff"

// Member is one decoded archive entry.
type Member struct {
	Name  string
	IsDir bool
	Text  string
}

// Open reads the bundle at path. maxSize limits the file size; zero or less
// means DefaultMaxSize.
func Open(path string, maxSize int64) ([]Member, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return nil, errors.New(errors.ErrInput,
			"Only ZIP bundles are supported: "+path,
			"Pass the .zip archive produced by zdiag")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInput,
			"Can't open bundle "+path,
			"Check the path exists and is readable")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInput,
			"Can't stat bundle "+path, "")
	}
	if info.Size() > maxSize {
		return nil, errors.New(errors.ErrInput,
			fmt.Sprintf("Bundle is %d bytes, limit is %d", info.Size(), maxSize),
			"Raise max_bundle_size in .zinspect.yaml if the bundle is trusted")
	}

	return Read(f, info.Size())
}

// Read decodes every member of the ZIP in r, in archive order.
func Read(r io.ReaderAt, size int64) ([]Member, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrArchive,
			"Bundle is not a valid ZIP archive",
			"Re-create the bundle with zdiag and copy it in binary mode")
	}

	members := make([]Member, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			members = append(members, Member{Name: f.Name, IsDir: true})
			continue
		}

		text, err := readMember(f)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrArchive,
				"Can't read bundle member "+f.Name,
				"The bundle may be truncated; re-create it with zdiag")
		}
		members = append(members, Member{Name: f.Name, Text: text})
	}
	return members, nil
}

func readMember(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(rc, MaxMemberSize+1))
	if err != nil {
		return "", err
	}
	if n > MaxMemberSize {
		return "", fmt.Errorf("member exceeds %d bytes", MaxMemberSize)
	}
	return strings.TrimPrefix(buf.String(), utf8BOM), nil
}
