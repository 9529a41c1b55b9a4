package b2api

type ListFileNamesReq struct {
	BucketID      string `json:"bucketId"`
	StartFileName string `json:"startFileName,omitempty"`
	MaxFileCount  int    `json:"maxFileCount,omitempty"` // service caps a page at 1000
	Prefix        string `json:"prefix,omitempty"`
	Delimiter     string `json:"delimiter,omitempty"`
}

// ListFileNamesResp carries at most one page. NextFileName is the cursor to
// feed back as StartFileName; empty means the listing is exhausted.
type ListFileNamesResp struct {
	Files        []FileVersion `json:"files"`
	NextFileName string        `json:"nextFileName"`
}

type ListFileVersionsReq struct {
	BucketID      string `json:"bucketId"`
	StartFileName string `json:"startFileName,omitempty"`
	StartFileID   string `json:"startFileId,omitempty"` // requires StartFileName when set
	MaxFileCount  int    `json:"maxFileCount,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
	Delimiter     string `json:"delimiter,omitempty"`
}

type ListFileVersionsResp struct {
	Files        []FileVersion `json:"files"`
	NextFileName string        `json:"nextFileName"`
	NextFileID   string        `json:"nextFileId"`
}

// FileVersion is one immutable stored instance of content under a name.
type FileVersion struct {
	FileID          string   `json:"fileId"`
	FileName        string   `json:"fileName"`
	ContentLength   int64    `json:"contentLength"`
	ContentSha1     string   `json:"contentSha1"`
	ContentType     string   `json:"contentType"`
	Size            int64    `json:"size"`
	Action          string   `json:"action"` // "upload", "hide", "start", "folder"
	UploadTimestamp int64    `json:"uploadTimestamp"`
	FileInfo        FileInfo `json:"fileInfo"`
}

type FileInfo struct {
	SrcLastModifiedMillis string `json:"src_last_modified_millis,omitempty"`
	LargeFileSha1         string `json:"large_file_sha1,omitempty"`
}

type GetFileInfoReq struct {
	FileID string `json:"fileId"`
}

type GetFileInfoResp struct {
	UploadResp
}

type DeleteFileVersionReq struct {
	FileName string `json:"fileName"`
	FileID   string `json:"fileId"`
}

type DeleteFileVersionResp struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
}

type HideFileReq struct {
	BucketID string `json:"bucketId"`
	FileName string `json:"fileName"`
}

type HideFileResp struct {
	UploadResp
}

type DownloadAuthReq struct {
	BucketID               string `json:"bucketId"`
	FileNamePrefix         string `json:"fileNamePrefix"`
	ValidDurationInSeconds int64  `json:"validDurationInSeconds"` // 1s minimum, 604800s maximum
	B2ContentDisposition   string `json:"b2ContentDisposition,omitempty"`
}

type DownloadAuthResp struct {
	BucketID           string `json:"bucketId"`
	FileNamePrefix     string `json:"fileNamePrefix"`
	AuthorizationToken string `json:"authorizationToken"`
}

type UploadURLReq struct {
	BucketID string `json:"bucketId"`
}

// UploadURLResp is the single-use upload endpoint: a bucket-scoped URL plus
// the token that authorizes posting to it.
type UploadURLResp struct {
	BucketID           string `json:"bucketId"`
	UploadURL          string `json:"uploadUrl"`
	AuthorizationToken string `json:"authorizationToken"`
}

// UploadResp describes the stored file version after a successful upload.
type UploadResp struct {
	AccountID       string   `json:"accountId"`
	Action          string   `json:"action"`
	BucketID        string   `json:"bucketId"`
	ContentLength   int64    `json:"contentLength"`
	ContentSha1     string   `json:"contentSha1"`
	ContentType     string   `json:"contentType"`
	FileID          string   `json:"fileId"`
	FileInfo        FileInfo `json:"fileInfo"`
	FileName        string   `json:"fileName"`
	UploadTimestamp int64    `json:"uploadTimestamp"`
}

type StartLargeFileReq struct {
	BucketID    string   `json:"bucketId"`
	FileName    string   `json:"fileName"`
	ContentType string   `json:"contentType"`
	FileInfo    FileInfo `json:"fileInfo"`
}

type StartLargeFileResp struct {
	UploadResp
}

type GetUploadPartURLReq struct {
	FileID string `json:"fileId"`
}

type GetUploadPartURLResp struct {
	FileID             string `json:"fileId"`
	UploadURL          string `json:"uploadUrl"`
	AuthorizationToken string `json:"authorizationToken"`
}

type UploadPartResp struct {
	FileID          string `json:"fileId"`
	PartNumber      int64  `json:"partNumber"`
	ContentLength   int64  `json:"contentLength"`
	ContentSha1     string `json:"contentSha1"`
	UploadTimestamp int64  `json:"uploadTimestamp"`
}

type ListPartsReq struct {
	FileID          string `json:"fileId"`
	StartPartNumber int64  `json:"startPartNumber,omitempty"`
	MaxPartCount    int64  `json:"maxPartCount,omitempty"`
}

type ListPartsResp struct {
	Parts          []Part `json:"parts"`
	NextPartNumber int64  `json:"nextPartNumber"`
}

type Part struct {
	FileID          string `json:"fileId"`
	PartNumber      int64  `json:"partNumber"`
	ContentLength   int64  `json:"contentLength"`
	ContentSha1     string `json:"contentSha1"`
	UploadTimestamp int64  `json:"uploadTimestamp"`
}

type FinishLargeFileReq struct {
	FileID        string   `json:"fileId"`
	PartSha1Array []string `json:"partSha1Array"` // part digests in part order
}

type FinishLargeFileResp struct {
	UploadResp
}

type CancelLargeFileReq struct {
	FileID string `json:"fileId"`
}

type CancelLargeFileResp struct {
	FileID    string `json:"fileId"`
	AccountID string `json:"accountId"`
	BucketID  string `json:"bucketId"`
	FileName  string `json:"fileName"`
}
