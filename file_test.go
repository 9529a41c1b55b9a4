package b2cloud

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croftbox/b2cloud/b2api"
	"github.com/croftbox/b2cloud/errs"
)

func TestListFileNamesCursorPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req b2api.ListFileNamesReq
		decodeReq(t, r, &req)
		assert.Equal(t, "bkt-1", req.BucketID)
		writeJSON(w, 200, map[string]interface{}{
			"files": []map[string]interface{}{
				{"fileId": "f1", "fileName": "a.txt", "action": "upload"},
			},
			"nextFileName": "b.txt",
		})
	}))
	defer srv.Close()

	c := authedCloud(srv.URL, srv.URL)
	resp, er := c.ListFileNames("bkt-1", &ListOptions{MaxFileCount: 1})
	require.Nil(t, er)
	assert.Equal(t, "b.txt", resp.NextFileName, "cursor must surface unmodified")
	require.Len(t, resp.Files, 1)
}

func TestListFileVersionsStrictFiltersPageOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{
			"files": []map[string]interface{}{
				{"fileId": "f1", "fileName": "a.txt", "action": "upload"},
				{"fileId": "f2", "fileName": "a.txt", "action": "upload"},
				{"fileId": "f3", "fileName": "a.txt.bak", "action": "upload"},
			},
			"nextFileName": "a.txt.bak",
			"nextFileId":   "f3",
		})
	}))
	defer srv.Close()

	c := authedCloud(srv.URL, srv.URL)
	resp, er := c.ListFileVersions("bkt-1", &VersionOptions{StartFileName: "a.txt", Strict: true})
	require.Nil(t, er)
	require.Len(t, resp.Files, 2)
	for _, f := range resp.Files {
		assert.Equal(t, "a.txt", f.FileName)
	}
	// cursors are never filtered
	assert.Equal(t, "a.txt.bak", resp.NextFileName)
	assert.Equal(t, "f3", resp.NextFileID)
}

func TestGetFileInfoByNameResolvesThroughBucket(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		switch r.URL.Path {
		case "/b2api/v1/b2_list_buckets":
			writeJSON(w, 200, map[string]interface{}{
				"buckets": []map[string]interface{}{
					{"bucketId": "b1", "bucketName": "photos", "bucketType": "allPrivate"},
				},
			})
		case "/b2api/v1/b2_list_file_versions":
			var req b2api.ListFileVersionsReq
			decodeReq(t, r, &req)
			assert.Equal(t, "b1", req.BucketID)
			assert.Equal(t, "img.png", req.StartFileName)
			writeJSON(w, 200, map[string]interface{}{
				"files": []map[string]interface{}{
					{"fileId": "f1", "fileName": "img.png", "action": "upload"},
				},
			})
		case "/b2api/v1/b2_get_file_info":
			var req b2api.GetFileInfoReq
			decodeReq(t, r, &req)
			assert.Equal(t, "f1", req.FileID)
			writeJSON(w, 200, map[string]interface{}{
				"fileId": "f1", "fileName": "img.png", "contentSha1": "da39a3ee", "contentLength": 12,
			})
		default:
			serviceError(w, 400, "bad_request", "unexpected "+r.URL.Path)
		}
	}))
	defer srv.Close()

	c := authedCloud(srv.URL, srv.URL)
	resp, er := c.GetFileInfo(FileRef{FileName: "img.png", BucketName: "photos"})
	require.Nil(t, er)
	assert.Equal(t, "f1", resp.FileID)
	assert.Equal(t, []string{
		"/b2api/v1/b2_list_buckets",
		"/b2api/v1/b2_list_file_versions",
		"/b2api/v1/b2_get_file_info",
	}, calls)
}

func TestGetFileInfoZeroMatchesIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/b2api/v1/b2_list_file_versions":
			writeJSON(w, 200, map[string]interface{}{
				"files": []map[string]interface{}{
					{"fileId": "fX", "fileName": "img.png.bak", "action": "upload"},
				},
			})
		default:
			serviceError(w, 400, "bad_request", "unexpected "+r.URL.Path)
		}
	}))
	defer srv.Close()

	c := authedCloud(srv.URL, srv.URL)
	_, er := c.GetFileInfo(FileRef{FileName: "img.png", BucketID: "b1"})
	require.NotNil(t, er)
	assert.Equal(t, errs.CodeNotFound, er.Code())
}

func TestGetFileInfoResolutionStopsAtFirstFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		serviceError(w, 503, "service_unavailable", "try later")
	}))
	defer srv.Close()

	c := authedCloud(srv.URL, srv.URL)
	_, er := c.GetFileInfo(FileRef{FileName: "img.png", BucketName: "photos"})
	require.NotNil(t, er)
	assert.Equal(t, 503, er.Status())
	assert.Equal(t, 1, calls, "chain must stop after the failed bucket lookup")
}

func TestGetFileInfoLargeFileDigestFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{
			"fileId": "f1", "fileName": "big.bin", "contentSha1": "none",
			"fileInfo": map[string]interface{}{"large_file_sha1": "cafebabe"},
		})
	}))
	defer srv.Close()

	c := authedCloud(srv.URL, srv.URL)
	resp, er := c.GetFileInfo(FileRef{FileID: "f1"})
	require.Nil(t, er)
	assert.Equal(t, "cafebabe", resp.ContentSha1)
}

func TestDeleteFileRequiresBothIdentifiers(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		var req b2api.DeleteFileVersionReq
		decodeReq(t, r, &req)
		writeJSON(w, 200, map[string]interface{}{"fileId": req.FileID, "fileName": req.FileName})
	}))
	defer srv.Close()

	c := authedCloud(srv.URL, srv.URL)

	_, er := c.DeleteFile("", "f1")
	require.NotNil(t, er)
	assert.Equal(t, errs.CodeValidation, er.Code())

	_, er = c.DeleteFile("a.txt", "")
	require.NotNil(t, er)
	assert.Equal(t, errs.CodeValidation, er.Code())
	assert.Equal(t, 0, hits)

	resp, er := c.DeleteFile("a.txt", "f1")
	require.Nil(t, er)
	assert.Equal(t, "f1", resp.FileID)
}

func TestGetDownloadAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req b2api.DownloadAuthReq
		decodeReq(t, r, &req)
		assert.Equal(t, "b1", req.BucketID)
		assert.Equal(t, "public/", req.FileNamePrefix)
		assert.Equal(t, int64(3600), req.ValidDurationInSeconds)
		writeJSON(w, 200, map[string]interface{}{
			"bucketId": "b1", "fileNamePrefix": "public/", "authorizationToken": "dl-token",
		})
	}))
	defer srv.Close()

	c := authedCloud(srv.URL, srv.URL)

	_, er := c.GetDownloadAuth("b1", "", 3600)
	require.NotNil(t, er)
	assert.Equal(t, errs.CodeValidation, er.Code())

	resp, er := c.GetDownloadAuth("b1", "public/", 3600)
	require.Nil(t, er)
	assert.Equal(t, "dl-token", resp.AuthorizationToken)
}

func TestUploadURLFetchesEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/b2api/v1/b2_get_upload_url", r.URL.Path)
		var req b2api.UploadURLReq
		decodeReq(t, r, &req)
		writeJSON(w, 200, map[string]interface{}{
			"bucketId": req.BucketID, "uploadUrl": "https://pod.example.com/u", "authorizationToken": "up-token",
		})
	}))
	defer srv.Close()

	c := authedCloud(srv.URL, srv.URL)
	resp, er := c.UploadURL("b1")
	require.Nil(t, er)
	assert.Equal(t, "https://pod.example.com/u", resp.UploadURL)
	assert.Equal(t, "up-token", resp.AuthorizationToken)
}
