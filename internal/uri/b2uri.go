package uri

// Control-plane endpoints. All calls except authorize, upload and download
// are POSTs against {apiUrl}+path.
const (
	B2BaseURL     = "https://api.backblazeb2.com"
	B2API         = "/b2api"
	B2Ver         = "/v1"
	B2APIVer      = B2API + B2Ver
	B2AuthAccount = B2BaseURL + B2APIVer + "/b2_authorize_account"

	B2ListBuckets  = B2APIVer + "/b2_list_buckets"
	B2CreateBucket = B2APIVer + "/b2_create_bucket"
	B2UpdateBucket = B2APIVer + "/b2_update_bucket"
	B2DeleteBucket = B2APIVer + "/b2_delete_bucket"

	B2ListFileNames     = B2APIVer + "/b2_list_file_names"
	B2ListFileVersions  = B2APIVer + "/b2_list_file_versions"
	B2GetFileInfo       = B2APIVer + "/b2_get_file_info"
	B2DeleteFileVersion = B2APIVer + "/b2_delete_file_version"
	B2HideFile          = B2APIVer + "/b2_hide_file"

	B2GetUploadURL     = B2APIVer + "/b2_get_upload_url"
	B2StartLargeFile   = B2APIVer + "/b2_start_large_file"
	B2GetUploadPartURL = B2APIVer + "/b2_get_upload_part_url"
	B2ListParts        = B2APIVer + "/b2_list_parts"
	B2FinishLargeFile  = B2APIVer + "/b2_finish_large_file"
	B2CancelLargeFile  = B2APIVer + "/b2_cancel_large_file"

	B2GetDownloadAuth = B2APIVer + "/b2_get_download_authorization"

	B2ListKeys  = B2APIVer + "/b2_list_keys"
	B2CreateKey = B2APIVer + "/b2_create_key"
	B2DeleteKey = B2APIVer + "/b2_delete_key"
)
