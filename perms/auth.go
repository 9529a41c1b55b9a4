package perms

import "github.com/croftbox/b2cloud/b2api"

func authorized(authd *b2api.AuthorizationResp, perm string) bool {
	if !authd.Valid() {
		return false
	}
	for _, k := range authd.Allowed.Capability {
		if perm == k {
			return true
		}
	}
	return false
}

func ListBuckets(authd *b2api.AuthorizationResp) bool  { return authorized(authd, "listBuckets") }
func CreateBucket(authd *b2api.AuthorizationResp) bool { return authorized(authd, "writeBuckets") }
func UpdateBucket(authd *b2api.AuthorizationResp) bool { return authorized(authd, "writeBuckets") }
func DeleteBucket(authd *b2api.AuthorizationResp) bool { return authorized(authd, "deleteBuckets") }

func ListFileNames(authd *b2api.AuthorizationResp) bool    { return authorized(authd, "listFiles") }
func ListFileVersions(authd *b2api.AuthorizationResp) bool { return authorized(authd, "listFiles") }
func GetFileInfo(authd *b2api.AuthorizationResp) bool      { return authorized(authd, "readFiles") }
func DeleteFiles(authd *b2api.AuthorizationResp) bool      { return authorized(authd, "deleteFiles") }
func HideFile(authd *b2api.AuthorizationResp) bool         { return authorized(authd, "writeFiles") }

func UploadFile(authd *b2api.AuthorizationResp) bool       { return authorized(authd, "writeFiles") }
func GetUploadURL(authd *b2api.AuthorizationResp) bool     { return authorized(authd, "writeFiles") }
func StartLargeFile(authd *b2api.AuthorizationResp) bool   { return authorized(authd, "writeFiles") }
func GetUploadPartURL(authd *b2api.AuthorizationResp) bool { return authorized(authd, "writeFiles") }
func ListParts(authd *b2api.AuthorizationResp) bool        { return authorized(authd, "writeFiles") }
func FinishLargeFile(authd *b2api.AuthorizationResp) bool  { return authorized(authd, "writeFiles") }
func CancelLargeFile(authd *b2api.AuthorizationResp) bool  { return authorized(authd, "writeFiles") }

func DownloadFile(authd *b2api.AuthorizationResp) bool    { return authorized(authd, "readFiles") }
func GetDownloadAuth(authd *b2api.AuthorizationResp) bool { return authorized(authd, "shareFiles") }

func CreateKeys(authd *b2api.AuthorizationResp) bool { return authorized(authd, "writeKeys") }
func ListKeys(authd *b2api.AuthorizationResp) bool   { return authorized(authd, "listKeys") }
func DeleteKeys(authd *b2api.AuthorizationResp) bool { return authorized(authd, "deleteKeys") }
