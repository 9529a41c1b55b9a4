package b2cloud

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croftbox/b2cloud/b2api"
	"github.com/croftbox/b2cloud/errs"
)

var allCaps = []string{
	"listKeys", "writeKeys", "deleteKeys", "listBuckets", "writeBuckets",
	"deleteBuckets", "listFiles", "readFiles", "shareFiles", "writeFiles", "deleteFiles",
}

// authedCloud builds a session that behaves as if Authorize already ran,
// pointed at the given fake service.
func authedCloud(apiURL, downloadURL string) *Cloud {
	c := New(Config{AccountID: "acct-1", ApplicationKey: "app-key"})
	c.AuthResponse = &b2api.AuthorizationResp{
		AccountID:          "acct-1",
		APIURL:             apiURL,
		AuthorizationToken: "sess-token",
		DownloadURL:        downloadURL,
		MinimumPartSize:    100 * (1 << 20),
		Allowed:            b2api.Allowed{Capability: allCaps},
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func serviceError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]interface{}{"code": code, "message": msg, "status": status})
}

func TestAuthorizeInstallsSessionState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "authorize must send basic credentials")
		assert.Equal(t, "acct-1", user)
		assert.Equal(t, "app-key", pass)
		writeJSON(w, 200, map[string]interface{}{
			"accountId":          "acct-1",
			"apiUrl":             "https://api900.example.com",
			"authorizationToken": "tok-abc",
			"downloadUrl":        "https://f900.example.com",
			"minimumPartSize":    100000000,
			"allowed":            map[string]interface{}{"capabilities": allCaps},
		})
	}))
	defer srv.Close()

	c := New(Config{AccountID: "acct-1", ApplicationKey: "app-key", AuthURL: srv.URL})
	assert.False(t, c.Authorized())

	er := c.Authorize()
	require.Nil(t, er)
	assert.True(t, c.Authorized())
	assert.Equal(t, "https://api900.example.com", c.AuthResponse.APIURL)
	assert.Equal(t, "tok-abc", c.AuthResponse.AuthorizationToken)
	assert.Equal(t, "https://f900.example.com", c.AuthResponse.DownloadURL)
	assert.Equal(t, int64(100000000), c.AuthResponse.MinimumPartSize)
}

func TestAuthorizeRejectedLeavesSessionUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serviceError(w, 401, "unauthorized", "application key is bad")
	}))
	defer srv.Close()

	c := New(Config{AccountID: "acct-1", ApplicationKey: "wrong", AuthURL: srv.URL})
	er := c.Authorize()
	require.NotNil(t, er)
	assert.Equal(t, errs.CodeAuth, er.Code())
	assert.Equal(t, 401, er.Status())
	assert.False(t, c.Authorized())
	assert.Nil(t, c.AuthResponse)
}

func TestAuthorizeFailureKeepsPriorAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serviceError(w, 503, "service_unavailable", "later")
	}))
	defer srv.Close()

	c := authedCloud("https://api900.example.com", "https://f900.example.com")
	c.cfg.AuthURL = srv.URL
	prior := c.AuthResponse

	er := c.Authorize()
	require.NotNil(t, er)
	assert.Same(t, prior, c.AuthResponse, "failed authorize must not disturb prior state")
}

func TestAuthorizeMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := New(Config{AccountID: "a", ApplicationKey: "b", AuthURL: srv.URL})
	er := c.Authorize()
	require.NotNil(t, er)
	assert.Equal(t, errs.CodeAuth, er.Code())
	assert.Equal(t, 0, er.Status())
	assert.False(t, c.Authorized())
}

func TestResourceOpsBeforeAuthorizeNeverTouchNetwork(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		serviceError(w, 400, "bad_request", "should never arrive")
	}))
	defer srv.Close()

	c := New(Config{AccountID: "a", ApplicationKey: "b", AuthURL: srv.URL})

	_, er := c.ListBuckets()
	require.NotNil(t, er)
	assert.Equal(t, errs.CodePrecondition, er.Code())
	assert.Equal(t, 0, er.Status())

	_, er = c.ListFileNames("bkt", nil)
	require.NotNil(t, er)
	assert.Equal(t, errs.CodePrecondition, er.Code())

	_, er = c.UploadURL("bkt")
	require.NotNil(t, er)
	assert.Equal(t, errs.CodePrecondition, er.Code())

	er = c.DownloadFile("bkt", "f.txt", t.TempDir()+"/f.txt", false)
	require.NotNil(t, er)
	assert.Equal(t, errs.CodePrecondition, er.Code())

	assert.Equal(t, 0, hits, "gated calls must not issue requests")
}

func TestMissingCapabilityIsPrecondition(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	c := authedCloud(srv.URL, srv.URL)
	c.AuthResponse.Allowed.Capability = []string{"listFiles"} // no deleteFiles

	_, er := c.DeleteFile("f.txt", "id-1")
	require.NotNil(t, er)
	assert.Equal(t, errs.CodePrecondition, er.Code())
	assert.Equal(t, 0, hits)
}

func TestNon200YieldsNormalizedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serviceError(w, 429, "too_many_requests", "slow down")
	}))
	defer srv.Close()

	c := authedCloud(srv.URL, srv.URL)
	_, er := c.ListBuckets()
	require.NotNil(t, er)
	assert.Equal(t, 429, er.Status())
	assert.Equal(t, "too_many_requests", er.Code())
	assert.Equal(t, "slow down", er.Message())
}

func TestTransportFailureYieldsStatusZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close() // nothing listening anymore

	c := authedCloud(base, base)
	_, er := c.ListBuckets()
	require.NotNil(t, er)
	assert.Equal(t, 0, er.Status(), "no response at all reserves status 0")
}
