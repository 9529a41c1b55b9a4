package b2cloud

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/colt3k/nglog/ng"
	"github.com/colt3k/utils/concur"
	"github.com/colt3k/utils/encode"
	"github.com/colt3k/utils/encode/encodeenum"
	"github.com/colt3k/utils/file/filenative"
	"github.com/colt3k/utils/hash/hashenum"
	"github.com/colt3k/utils/hash/sha1"
	"github.com/colt3k/utils/io/ioreader/passthrough"
	"github.com/colt3k/utils/mathut"
	"github.com/colt3k/utils/stringut"

	"github.com/croftbox/b2cloud/b2api"
	"github.com/croftbox/b2cloud/errs"
	"github.com/croftbox/b2cloud/internal/auth"
	"github.com/croftbox/b2cloud/internal/caller"
	"github.com/croftbox/b2cloud/perms"
)

// DefaultContentType lets the service sniff the stored content type.
const DefaultContentType = "b2/x-auto"

// UploadRequest describes one upload. It lives for the duration of a single
// call and accumulates the derived fields (endpoint, digest, size) during
// preparation, before the network attempt fires.
type UploadRequest struct {
	BucketID         string
	LocalPath        string
	RemoteName       string
	ContentType      string // defaults to DefaultContentType
	MaxRetryAttempts int    // defaults to DefaultMaxRetryAttempts

	endpoint      *b2api.UploadURLResp
	sha1Hex       string
	size          int64
	lastModMillis int64
}

func (r *UploadRequest) normalize() errs.Error {
	if r == nil || len(r.BucketID) == 0 || len(r.LocalPath) == 0 || len(r.RemoteName) == 0 {
		return errs.Validation("bucketId, localPath and remoteName are all required")
	}
	if len(r.ContentType) == 0 {
		r.ContentType = DefaultContentType
	}
	if r.MaxRetryAttempts <= 0 {
		r.MaxRetryAttempts = DefaultMaxRetryAttempts
	}
	return nil
}

func lastModMillis(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.ModTime().UnixNano() / int64(time.Millisecond), nil
}

// taskJoin collects the first failure across a pool of tasks. Pool.Run is
// the barrier: every task settles before the caller moves on, a failing
// task never cancels its siblings.
type taskJoin struct {
	mu       sync.Mutex
	firstErr errs.Error
}

// Response satisfies the pool's completion callback; task results are
// written into shared state by the tasks themselves.
func (j *taskJoin) Response(b []byte) {}

func (j *taskJoin) fail(er errs.Error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.firstErr == nil {
		j.firstErr = er
	}
}

func (j *taskJoin) err() errs.Error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.firstErr
}

// UploadFile runs the full upload pipeline: three independent preparation
// steps in parallel (fetch a fresh upload endpoint, stream the SHA-1 of
// the local file, stat it), then the retried POST to the endpoint. Any
// preparation failure fails the call before an attempt is made.
func (c *Cloud) UploadFile(req *UploadRequest) (*b2api.UploadResp, errs.Error) {
	if er := req.normalize(); er != nil {
		return nil, er
	}
	if er := c.gate(perms.UploadFile, "uploadFile"); er != nil {
		return nil, er
	}
	if er := c.prepareUpload(req); er != nil {
		return nil, er
	}
	return c.uploadWithRetry(req)
}

func (c *Cloud) prepareUpload(req *UploadRequest) errs.Error {
	join := &taskJoin{}
	tasks := []*concur.Task{
		concur.NewTask(func() (error, []byte) {
			ep, er := c.UploadURL(req.BucketID)
			if er != nil {
				join.fail(er)
			} else {
				req.endpoint = ep
			}
			return nil, nil
		}, join),
		concur.NewTask(func() (error, []byte) {
			f := filenative.NewFile(req.LocalPath)
			if !f.Available() {
				join.fail(errs.Validation("local file not readable: " + req.LocalPath))
				return nil, nil
			}
			req.sha1Hex = encode.Encode(f.Hash(sha1.NewHash(sha1.Format(hashenum.SHA1)), true), encodeenum.Hex)
			return nil, nil
		}, join),
		concur.NewTask(func() (error, []byte) {
			f := filenative.NewFile(req.LocalPath)
			if !f.Available() {
				join.fail(errs.Validation("local file not readable: " + req.LocalPath))
				return nil, nil
			}
			req.size = f.Size()
			lm, errSt := lastModMillis(req.LocalPath)
			if errSt != nil {
				join.fail(errs.New(errSt, "reading file times"))
				return nil, nil
			}
			req.lastModMillis = lm
			return nil, nil
		}, join),
	}
	concur.NewPool(tasks, len(tasks)).Run()

	if er := join.err(); er != nil {
		return er
	}
	if req.endpoint == nil || len(req.sha1Hex) == 0 {
		return errs.New(nil, "upload preparation incomplete")
	}
	return nil
}

func (c *Cloud) uploadWithRetry(req *UploadRequest) (*b2api.UploadResp, errs.Error) {
	name := url.URL{Path: req.RemoteName} // percent-encoded UTF-8 on the wire
	encName := name.String()

	var lastErr errs.Error
	for attempt := 0; attempt < req.MaxRetryAttempts; attempt++ {
		if attempt > 0 {
			backoff(attempt)
		}
		resp, er := c.uploadOnce(req, encName)
		if er == nil {
			return resp, nil
		}
		log.Logf(log.WARN, "upload attempt %d of %d failed: %d %s",
			attempt+1, req.MaxRetryAttempts, er.Status(), er.Code())
		lastErr = er
	}
	return nil, lastErr
}

func (c *Cloud) uploadOnce(req *UploadRequest, encName string) (*b2api.UploadResp, errs.Error) {
	header := auth.BuildAuthMap(req.endpoint.AuthorizationToken)
	header["X-Bz-File-Name"] = encName
	header["Content-Type"] = req.ContentType
	header["Content-Length"] = mathut.FmtInt(int(req.size))
	header["X-Bz-Content-Sha1"] = req.sha1Hex
	header["X-Bz-Info-src_last_modified_millis"] = mathut.FmtInt(int(req.lastModMillis))

	// the body stream is single-use, so every attempt opens it fresh
	fo, errOp := os.Open(req.LocalPath)
	if errOp != nil {
		return nil, errs.New(errOp, "opening upload source")
	}
	defer fo.Close()

	log.Logln(log.DEBUG, "uploading ", stringut.HRByteCount(req.size, true))
	rc := passthrough.NewStream(fo, req.size, filepath.Base(req.LocalPath), 1, 1, 1, false)
	mapData, er := caller.MakeCall("POST", req.endpoint.UploadURL, rc, header)
	rc.Close()
	if er != nil {
		return nil, er
	}

	var resp b2api.UploadResp
	if errUn := json.Unmarshal(mapData["body"].([]byte), &resp); errUn != nil {
		return nil, errs.New(errUn, "unmarshalling body")
	}
	return &resp, nil
}
