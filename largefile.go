package b2cloud

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	log "github.com/colt3k/nglog/ng"
	"github.com/colt3k/utils/concur"
	"github.com/colt3k/utils/encode"
	"github.com/colt3k/utils/encode/encodeenum"
	"github.com/colt3k/utils/file/filenative"
	"github.com/colt3k/utils/file/filesize"
	"github.com/colt3k/utils/hash/hashenum"
	"github.com/colt3k/utils/hash/sha1"
	"github.com/colt3k/utils/io/ioreader/passthrough"
	"github.com/colt3k/utils/mathut"
	"github.com/colt3k/utils/stringut"

	"github.com/croftbox/b2cloud/b2api"
	"github.com/croftbox/b2cloud/errs"
	"github.com/croftbox/b2cloud/internal/auth"
	"github.com/croftbox/b2cloud/internal/caller"
	"github.com/croftbox/b2cloud/internal/uri"
	"github.com/croftbox/b2cloud/perms"
)

const (
	fileChunk   = 10 * (1 << 20)  // part size for large files
	fileChunkLg = 100 * (1 << 20) // stepped-up part size when 10MB parts would exceed the ceiling
	maxParts    = 100
	minParts    = 2
	maxUploadTB = 10
)

// MaxConcurrentPartUploads bounds the part-upload worker pool.
var MaxConcurrentPartUploads = 3

// partSpan is one slice of the source file, hashed and sent by a worker.
type partSpan struct {
	num     int64
	start   int64
	size    int64
	sha1Hex string
}

// Put uploads a local file, choosing the single-call pipeline or the
// large-file flow based on the file size against the session's part size.
func (c *Cloud) Put(req *UploadRequest) (*b2api.UploadResp, errs.Error) {
	if er := req.normalize(); er != nil {
		return nil, er
	}
	if er := c.gate(perms.UploadFile, "uploadFile"); er != nil {
		return nil, er
	}
	f := filenative.NewFile(req.LocalPath)
	if !f.Available() {
		return nil, errs.Validation("local file not readable: " + req.LocalPath)
	}
	threshold := c.AuthResponse.PartSize()
	if threshold <= 0 {
		threshold = fileChunk
	}
	if f.Size() >= threshold*minParts {
		return c.UploadLargeFile(req)
	}
	return c.UploadFile(req)
}

// UploadLargeFile splits the source into parts and uploads them on a
// bounded worker pool: start the large file, post every part with its own
// digest, then finish with the ordered part digests. Any part failure
// cancels the remote file and surfaces the first error observed.
func (c *Cloud) UploadLargeFile(req *UploadRequest) (*b2api.UploadResp, errs.Error) {
	if er := req.normalize(); er != nil {
		return nil, er
	}
	if er := c.gate(perms.StartLargeFile, "startLargeFile"); er != nil {
		return nil, er
	}

	f := filenative.NewFile(req.LocalPath)
	if !f.Available() {
		return nil, errs.Validation("local file not readable: " + req.LocalPath)
	}
	req.size = f.Size()
	if req.size > int64(filesize.SizeTypes(filesize.Bytes).Convert(maxUploadTB, filesize.Tera, true)) {
		return nil, errs.Validation("file too large for upload, over 10 TB")
	}
	chunk, er := partLayout(req.size)
	if er != nil {
		return nil, er
	}
	lm, errSt := lastModMillis(req.LocalPath)
	if errSt != nil {
		return nil, errs.New(errSt, "reading file times")
	}
	req.lastModMillis = lm
	req.sha1Hex = encode.Encode(f.Hash(sha1.NewHash(sha1.Format(hashenum.SHA1)), true), encodeenum.Hex)

	start, er := c.StartLargeFile(req)
	if er != nil {
		return nil, er
	}

	parts := splitParts(req.size, chunk)
	log.Logf(log.INFO, "uploading %s in %d parts", stringut.HRByteCount(req.size, true), len(parts))

	fo, errOp := os.Open(req.LocalPath)
	if errOp != nil {
		return nil, errs.New(errOp, "opening upload source")
	}
	defer fo.Close()

	join := &taskJoin{}
	tasks := make([]*concur.Task, 0, len(parts))
	total := len(parts)
	for _, p := range parts {
		p := p
		tasks = append(tasks, concur.NewTask(func() (error, []byte) {
			if perr := c.uploadPart(start.FileID, p, total, fo, req); perr != nil {
				join.fail(perr)
			}
			return nil, nil
		}, join))
	}
	concur.NewPool(tasks, MaxConcurrentPartUploads).Run()

	if perr := join.err(); perr != nil {
		if _, cerr := c.CancelLargeFile(start.FileID); cerr != nil {
			log.Logf(log.WARN, "cancel of large file %s failed: %v", start.FileID, cerr)
		}
		return nil, perr
	}

	shas := make([]string, len(parts))
	for i, p := range parts {
		shas[i] = p.sha1Hex
	}
	fin, er := c.FinishLargeFile(start.FileID, shas)
	if er != nil {
		return nil, er
	}
	return &fin.UploadResp, nil
}

// uploadPart fetches a part endpoint, hashes the span and posts it, with
// the same backoff schedule as the single-file pipeline.
func (c *Cloud) uploadPart(fileID string, p *partSpan, totalParts int, fo *os.File, req *UploadRequest) errs.Error {
	ep, er := c.GetUploadPartURL(fileID)
	if er != nil {
		return er
	}

	buf := make([]byte, p.size)
	if _, errRA := fo.ReadAt(buf, p.start); errRA != nil && errRA != io.EOF {
		return errs.New(errRA, "reading part from source")
	}
	p.sha1Hex = encode.Encode(sha1.NewHash(sha1.Format(hashenum.SHA1)).String(string(buf)), encodeenum.Hex)

	var lastErr errs.Error
	for attempt := 0; attempt < req.MaxRetryAttempts; attempt++ {
		if attempt > 0 {
			backoff(attempt)
		}
		header := auth.BuildAuthMap(ep.AuthorizationToken)
		header["X-Bz-Part-Number"] = mathut.FmtInt(int(p.num))
		header["Content-Length"] = mathut.FmtInt(int(p.size))
		header["X-Bz-Content-Sha1"] = p.sha1Hex

		rc := passthrough.NewStream(ioutil.NopCloser(bytes.NewReader(buf)), p.size,
			filepath.Base(req.LocalPath), int(p.num), totalParts, 5, true)
		mapData, er := caller.MakeCall("POST", ep.UploadURL, rc, header)
		rc.Close()
		if er != nil {
			log.Logf(log.WARN, "part %d attempt %d failed: %d %s", p.num, attempt+1, er.Status(), er.Code())
			lastErr = er
			continue
		}
		var resp b2api.UploadPartResp
		if errUn := json.Unmarshal(mapData["body"].([]byte), &resp); errUn != nil {
			return errs.New(errUn, "unmarshalling body")
		}
		log.Logln(log.DEBUG, "part uploaded: ", resp.PartNumber)
		return nil
	}
	return lastErr
}

// partLayout picks the chunk size, stepping from 10MB to 100MB parts when
// the count would exceed the ceiling.
func partLayout(size int64) (int64, errs.Error) {
	chunk := int64(fileChunk)
	if (size+chunk-1)/chunk > maxParts {
		chunk = fileChunkLg
	}
	if total := (size + chunk - 1) / chunk; total > maxParts {
		return 0, errs.Validation("part count over max allowed")
	}
	return chunk, nil
}

func splitParts(size, chunk int64) []*partSpan {
	total := (size + chunk - 1) / chunk
	parts := make([]*partSpan, 0, total)
	for i := int64(0); i < total; i++ {
		start := i * chunk
		psize := chunk
		if start+psize > size {
			psize = size - start
		}
		parts = append(parts, &partSpan{num: i + 1, start: start, size: psize})
	}
	return parts
}

// StartLargeFile opens a large-file upload and returns its fileId.
func (c *Cloud) StartLargeFile(req *UploadRequest) (*b2api.StartLargeFileResp, errs.Error) {
	if er := c.gate(perms.StartLargeFile, "startLargeFile"); er != nil {
		return nil, er
	}
	sreq := &b2api.StartLargeFileReq{
		BucketID:    req.BucketID,
		FileName:    req.RemoteName,
		ContentType: req.ContentType,
		FileInfo: b2api.FileInfo{
			SrcLastModifiedMillis: mathut.FmtInt(int(req.lastModMillis)),
			LargeFileSha1:         req.sha1Hex,
		},
	}
	var resp b2api.StartLargeFileResp
	if er := c.post(uri.B2StartLargeFile, sreq, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// GetUploadPartURL fetches a part-scoped upload endpoint for the file.
func (c *Cloud) GetUploadPartURL(fileID string) (*b2api.GetUploadPartURLResp, errs.Error) {
	if er := c.gate(perms.GetUploadPartURL, "getUploadPartUrl"); er != nil {
		return nil, er
	}
	var resp b2api.GetUploadPartURLResp
	if er := c.post(uri.B2GetUploadPartURL, &b2api.GetUploadPartURLReq{FileID: fileID}, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// ListParts pages through the parts uploaded so far for a large file.
func (c *Cloud) ListParts(fileID string, startPartNumber, maxPartCount int64) (*b2api.ListPartsResp, errs.Error) {
	if er := c.gate(perms.ListParts, "listParts"); er != nil {
		return nil, er
	}
	req := &b2api.ListPartsReq{FileID: fileID, StartPartNumber: startPartNumber, MaxPartCount: maxPartCount}
	var resp b2api.ListPartsResp
	if er := c.post(uri.B2ListParts, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// FinishLargeFile assembles the uploaded parts into the stored file.
func (c *Cloud) FinishLargeFile(fileID string, partSha1s []string) (*b2api.FinishLargeFileResp, errs.Error) {
	if er := c.gate(perms.FinishLargeFile, "finishLargeFile"); er != nil {
		return nil, er
	}
	req := &b2api.FinishLargeFileReq{FileID: fileID, PartSha1Array: partSha1s}
	var resp b2api.FinishLargeFileResp
	if er := c.post(uri.B2FinishLargeFile, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// CancelLargeFile abandons an unfinished large file and its parts.
func (c *Cloud) CancelLargeFile(fileID string) (*b2api.CancelLargeFileResp, errs.Error) {
	if er := c.gate(perms.CancelLargeFile, "cancelLargeFile"); er != nil {
		return nil, er
	}
	var resp b2api.CancelLargeFileResp
	if er := c.post(uri.B2CancelLargeFile, &b2api.CancelLargeFileReq{FileID: fileID}, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}
