// Package attach keeps contract PDFs on local disk, one file per
// contract. Attachments never reach the database: rows only ever record
// whether a file exists at read time.
package attach

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	ErrNotPDF   = errors.New("file is not a pdf")
	ErrNotFound = errors.New("attachment not found")
)

var pdfMagic = []byte("%PDF-")

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save sniffs the payload and rejects anything that is not a PDF, then
// replaces the contract's attachment atomically.
func (s *Store) Save(contractID uuid.UUID, r io.Reader) error {
	head := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read attachment: %w", err)
	}
	if n < len(pdfMagic) || !bytes.Equal(head[:n], pdfMagic) {
		return ErrNotPDF
	}

	tmp, err := os.CreateTemp(s.dir, "upload-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(head[:n]); err != nil {
		tmp.Close()
		return fmt.Errorf("write attachment: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write attachment: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close attachment: %w", err)
	}

	return os.Rename(tmpName, s.path(contractID))
}

// Open returns the attachment content and its size. The caller owns the
// reader and must close it on every exit path.
func (s *Store) Open(contractID uuid.UUID) (io.ReadCloser, int64, error) {
	file, err := os.Open(s.path(contractID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, err
	}
	return file, info.Size(), nil
}

func (s *Store) Exists(contractID uuid.UUID) bool {
	_, err := os.Stat(s.path(contractID))
	return err == nil
}

// Remove deletes the attachment if present. Missing files are not an error:
// contracts created without an upload have nothing to remove.
func (s *Store) Remove(contractID uuid.UUID) error {
	err := os.Remove(s.path(contractID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) path(contractID uuid.UUID) string {
	return filepath.Join(s.dir, contractID.String()+".pdf")
}
