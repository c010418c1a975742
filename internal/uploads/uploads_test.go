package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName_SanitizesEmailAndExtension(t *testing.T) {
	kind := ProfilePictures(t.TempDir())

	name, err := FileName(kind, "photo.PNG", "ana.maria+x@example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "ana_maria_x_"), name)
	assert.True(t, strings.HasSuffix(name, ".png"), name)

	name, err = FileName(kind, "../../etc/passwd.exe", "ana@example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"), name)
	assert.NotContains(t, name, "/")
}

func TestFileName_StrictKindRejects(t *testing.T) {
	kind := CVs(t.TempDir())

	_, err := FileName(kind, "cv.docx", "ana@example.com")
	assert.ErrorIs(t, err, ErrFileType)

	_, err = FileName(kind, "cv", "ana@example.com")
	assert.ErrorIs(t, err, ErrFileType)

	name, err := FileName(kind, "CV.pdf", "ana@example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".pdf"))
}

func TestStore_SaveProfilePicture(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(ProfilePictures(filepath.Join(dir, "pics")), CVs(filepath.Join(dir, "cvs")))
	require.NoError(t, err)

	fh := multipartFile(t, "profile_picture", "me.png", []byte("png-bytes"))

	name, err := store.SaveProfilePicture(fh, "ana@example.com")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "pics", name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

// multipartFile builds a parsed *multipart.FileHeader the way gin hands it to handlers
func multipartFile(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File[field][0]
}
