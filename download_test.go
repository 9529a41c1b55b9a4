package b2cloud

import (
	csha1 "crypto/sha1"
	"encoding/hex"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croftbox/b2cloud/errs"
)

// downloadServer serves one object at /file/{bucket}/{name} advertising
// digestHex in the response header.
func downloadServer(t *testing.T, bucket, name, content, digestHex string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/file/"+bucket+"/"+name, r.URL.Path)
		require.Equal(t, "sess-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set(sha1Header, digestHex)
		_, _ = w.Write([]byte(content))
	}))
}

func sha1Hex(s string) string {
	sum := csha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestFileStreamReturnsLiveBody(t *testing.T) {
	content := "streamed payload"
	srv := downloadServer(t, "photos", "img.png", content, sha1Hex(content))
	defer srv.Close()

	c := authedCloud("https://api.invalid", srv.URL)
	resp, er := c.FileStream("photos", "img.png")
	require.Nil(t, er)
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, string(body))
	assert.Equal(t, sha1Hex(content), resp.Header.Get(sha1Header))
}

func TestDownloadFileVerifiedWriteSucceeds(t *testing.T) {
	content := "verified bytes"
	srv := downloadServer(t, "photos", "img.png", content, sha1Hex(content))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "img.png")
	c := authedCloud("https://api.invalid", srv.URL)
	require.Nil(t, c.DownloadFile("photos", "img.png", dest, true))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestDownloadFileDigestMismatchLeavesFileOnDisk(t *testing.T) {
	content := "tampered bytes"
	srv := downloadServer(t, "photos", "img.png", content, sha1Hex("something else"))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "img.png")
	c := authedCloud("https://api.invalid", srv.URL)
	er := c.DownloadFile("photos", "img.png", dest, true)
	require.NotNil(t, er)
	assert.Equal(t, errs.CodeIntegrity, er.Code())
	assert.Equal(t, 0, er.Status())

	// the suspect file stays for inspection
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestDownloadFileSkipsVerificationWhenDisabled(t *testing.T) {
	content := "unverified bytes"
	srv := downloadServer(t, "photos", "img.png", content, sha1Hex("wrong digest"))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "img.png")
	c := authedCloud("https://api.invalid", srv.URL)
	require.Nil(t, c.DownloadFile("photos", "img.png", dest, false))
}

func TestDownloadFileTruncatesExistingContent(t *testing.T) {
	content := "short"
	srv := downloadServer(t, "photos", "img.png", content, sha1Hex(content))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(dest, []byte("a much longer stale local copy"), 0o644))

	c := authedCloud("https://api.invalid", srv.URL)
	require.Nil(t, c.DownloadFile("photos", "img.png", dest, true))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestDownloadFileValidatesInput(t *testing.T) {
	c := authedCloud("https://api.invalid", "https://f.invalid")
	er := c.DownloadFile("", "img.png", "/tmp/x", false)
	require.NotNil(t, er)
	assert.Equal(t, errs.CodeValidation, er.Code())

	_, er = c.FileStream("photos", "")
	require.NotNil(t, er)
	assert.Equal(t, errs.CodeValidation, er.Code())
}
