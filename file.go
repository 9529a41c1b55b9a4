package b2cloud

import (
	"strings"

	"github.com/croftbox/b2cloud/b2api"
	"github.com/croftbox/b2cloud/errs"
	"github.com/croftbox/b2cloud/internal/uri"
	"github.com/croftbox/b2cloud/perms"
)

// ListOptions are the optional knobs for ListFileNames. Zero values are
// left off the wire.
type ListOptions struct {
	StartFileName string
	MaxFileCount  int // service caps a page at 1000
	Prefix        string
	Delimiter     string
}

// VersionOptions are the optional knobs for ListFileVersions. Strict keeps
// only entries whose name exactly equals StartFileName; the pagination
// cursors pass through unfiltered either way.
type VersionOptions struct {
	StartFileName string
	StartFileID   string
	MaxFileCount  int
	Strict        bool
}

// FileRef identifies a file for GetFileInfo. Exactly one of the three
// forms must be populated: FileID, FileName+BucketID, or
// FileName+BucketName.
type FileRef struct {
	FileID     string
	FileName   string
	BucketID   string
	BucketName string
}

// ListFileNames returns one page of file names. Callers page by feeding
// NextFileName back as StartFileName; the client never loops on its own.
func (c *Cloud) ListFileNames(bucketID string, opt *ListOptions) (*b2api.ListFileNamesResp, errs.Error) {
	if len(bucketID) == 0 {
		return nil, errs.Validation("bucketId is required")
	}
	if er := c.gate(perms.ListFileNames, "listFileNames"); er != nil {
		return nil, er
	}
	req := &b2api.ListFileNamesReq{BucketID: bucketID}
	if opt != nil {
		req.StartFileName = opt.StartFileName
		req.MaxFileCount = opt.MaxFileCount
		req.Prefix = opt.Prefix
		req.Delimiter = opt.Delimiter
	}
	var resp b2api.ListFileNamesResp
	if er := c.post(uri.B2ListFileNames, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// ListFileVersions returns one page of file versions. With opt.Strict the
// page's entries are filtered to exact StartFileName matches; entries
// beyond the returned page are never fetched, so a match past the page cap
// is not found.
func (c *Cloud) ListFileVersions(bucketID string, opt *VersionOptions) (*b2api.ListFileVersionsResp, errs.Error) {
	if len(bucketID) == 0 {
		return nil, errs.Validation("bucketId is required")
	}
	if er := c.gate(perms.ListFileVersions, "listFileVersions"); er != nil {
		return nil, er
	}
	req := &b2api.ListFileVersionsReq{BucketID: bucketID}
	if opt != nil {
		req.StartFileName = opt.StartFileName
		req.StartFileID = opt.StartFileID
		req.MaxFileCount = opt.MaxFileCount
	}
	var resp b2api.ListFileVersionsResp
	if er := c.post(uri.B2ListFileVersions, req, &resp); er != nil {
		return nil, er
	}
	if opt != nil && opt.Strict && len(opt.StartFileName) > 0 {
		kept := resp.Files[:0]
		for _, f := range resp.Files {
			if f.FileName == opt.StartFileName {
				kept = append(kept, f)
			}
		}
		resp.Files = kept
	}
	return &resp, nil
}

// GetFileInfo fetches a file version's metadata. Name-based references are
// resolved first: bucketName to bucketId via the bucket listing, then
// fileName to fileId via a strict version listing. Zero exact matches fail
// with not_found; a failed resolution step stops the chain.
func (c *Cloud) GetFileInfo(ref FileRef) (*b2api.GetFileInfoResp, errs.Error) {
	if er := c.gate(perms.GetFileInfo, "getFileInfo"); er != nil {
		return nil, er
	}

	fileID := ref.FileID
	if len(fileID) == 0 {
		if len(ref.FileName) == 0 {
			return nil, errs.Validation("fileId or fileName is required")
		}
		bucketID := ref.BucketID
		if len(bucketID) == 0 {
			if len(ref.BucketName) == 0 {
				return nil, errs.Validation("fileName lookups need bucketId or bucketName")
			}
			bkt, er := c.BucketByName(ref.BucketName)
			if er != nil {
				return nil, er
			}
			if bkt == nil {
				return nil, errs.NotFound("no bucket named " + ref.BucketName)
			}
			bucketID = bkt.BucketID
		}
		vers, er := c.ListFileVersions(bucketID, &VersionOptions{StartFileName: ref.FileName, Strict: true})
		if er != nil {
			return nil, er
		}
		if len(vers.Files) == 0 {
			return nil, errs.NotFound("no file named " + ref.FileName)
		}
		fileID = vers.Files[0].FileID
	}

	req := &b2api.GetFileInfoReq{FileID: fileID}
	var resp b2api.GetFileInfoResp
	if er := c.post(uri.B2GetFileInfo, req, &resp); er != nil {
		return nil, er
	}
	// large files report "none" here and carry the real digest in file info
	sha := strings.TrimSpace(resp.ContentSha1)
	if sha == "none" || len(sha) == 0 {
		resp.ContentSha1 = resp.FileInfo.LargeFileSha1
	}
	return &resp, nil
}

// DeleteFile removes one version of a file; other versions under the same
// name survive. Both identifiers are required.
func (c *Cloud) DeleteFile(fileName, fileID string) (*b2api.DeleteFileVersionResp, errs.Error) {
	if len(fileName) == 0 || len(fileID) == 0 {
		return nil, errs.Validation("fileName and fileId are both required")
	}
	if er := c.gate(perms.DeleteFiles, "deleteFileVersion"); er != nil {
		return nil, er
	}
	req := &b2api.DeleteFileVersionReq{FileName: fileName, FileID: fileID}
	var resp b2api.DeleteFileVersionResp
	if er := c.post(uri.B2DeleteFileVersion, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// HideFile hides a name so listings skip it, without deleting versions.
func (c *Cloud) HideFile(bucketID, fileName string) (*b2api.HideFileResp, errs.Error) {
	if len(bucketID) == 0 || len(fileName) == 0 {
		return nil, errs.Validation("bucketId and fileName are both required")
	}
	if er := c.gate(perms.HideFile, "hideFile"); er != nil {
		return nil, er
	}
	req := &b2api.HideFileReq{BucketID: bucketID, FileName: fileName}
	var resp b2api.HideFileResp
	if er := c.post(uri.B2HideFile, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// GetDownloadAuth returns a token granting time-limited read access to
// files under the given name prefix.
func (c *Cloud) GetDownloadAuth(bucketID, fileNamePrefix string, validDurationInSeconds int64) (*b2api.DownloadAuthResp, errs.Error) {
	if len(bucketID) == 0 || len(fileNamePrefix) == 0 || validDurationInSeconds <= 0 {
		return nil, errs.Validation("bucketId, fileNamePrefix and a positive duration are required")
	}
	if er := c.gate(perms.GetDownloadAuth, "getDownloadAuthorization"); er != nil {
		return nil, er
	}
	req := &b2api.DownloadAuthReq{
		BucketID:               bucketID,
		FileNamePrefix:         fileNamePrefix,
		ValidDurationInSeconds: validDurationInSeconds,
	}
	var resp b2api.DownloadAuthResp
	if er := c.post(uri.B2GetDownloadAuth, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// UploadURL fetches a fresh single-use upload endpoint for the bucket. It
// is requested once per upload sequence and never cached across calls.
func (c *Cloud) UploadURL(bucketID string) (*b2api.UploadURLResp, errs.Error) {
	if len(bucketID) == 0 {
		return nil, errs.Validation("bucketId is required")
	}
	if er := c.gate(perms.GetUploadURL, "getUploadUrl"); er != nil {
		return nil, er
	}
	req := &b2api.UploadURLReq{BucketID: bucketID}
	var resp b2api.UploadURLResp
	if er := c.post(uri.B2GetUploadURL, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}
