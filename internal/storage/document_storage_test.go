package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
)

func pdf(size int) []byte {
	body := []byte("%PDF-1.4\n")
	return append(body, bytes.Repeat([]byte("a"), size)...)
}

func TestSave_StoresUnderContractDir(t *testing.T) {
	root := t.TempDir()
	s, err := NewDocumentStorage(root, 1)
	require.NoError(t, err)
	contractID := uuid.New()

	doc, err := s.Save(context.Background(), contractID, "договор подряда.pdf", bytes.NewReader(pdf(100)))
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", doc.MIME)
	assert.True(t, strings.HasPrefix(doc.Path, contractID.String()+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(doc.Path, ".pdf"))
	assert.NotContains(t, doc.Path, " ")

	_, err = os.Stat(filepath.Join(root, doc.Path))
	assert.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), doc.Path))
	_, err = os.Stat(filepath.Join(root, doc.Path))
	assert.True(t, os.IsNotExist(err))
}

func TestSave_RejectsUnknownType(t *testing.T) {
	s, err := NewDocumentStorage(t.TempDir(), 1)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), uuid.New(), "notes.txt", strings.NewReader("просто текст"))
	assert.True(t, apperror.IsValidation(err))
}

func TestSave_RejectsTooLarge(t *testing.T) {
	root := t.TempDir()
	s, err := NewDocumentStorage(root, 1)
	require.NoError(t, err)
	contractID := uuid.New()

	_, err = s.Save(context.Background(), contractID, "big.pdf", bytes.NewReader(pdf(2*1024*1024)))
	assert.True(t, apperror.IsValidation(err))

	entries, err := os.ReadDir(filepath.Join(root, contractID.String()))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDelete_StaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	t.Cleanup(func() { _ = os.Remove(outside) })

	s, err := NewDocumentStorage(root, 1)
	require.NoError(t, err)
	require.NoError(t, s.Delete(context.Background(), "../keep.txt"))

	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "my_file.pdf", sanitizeFilename("my file.pdf"))
	assert.Equal(t, "document", sanitizeFilename(""))
}
