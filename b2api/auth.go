package b2api

// AuthorizationResp is the service response to b2_authorize_account.
// APIURL is the base for all control-plane calls, DownloadURL the base
// for file downloads; the token is valid for 24 hours.
type AuthorizationResp struct {
	AccountID               string  `json:"accountId"`
	APIURL                  string  `json:"apiUrl"`
	AuthorizationToken      string  `json:"authorizationToken"`
	DownloadURL             string  `json:"downloadUrl"`
	MinimumPartSize         int64   `json:"minimumPartSize"`         // smallest recommended part size in bytes
	RecommendedPartSize     int64   `json:"recommendedPartSize"`     // preferred over MinimumPartSize when present
	AbsoluteMinimumPartSize int64   `json:"absoluteMinimumPartSize"` // hard floor for any part except the last
	Allowed                 Allowed `json:"allowed"`
}

// Valid reports whether the authorization holds a usable API base.
func (a *AuthorizationResp) Valid() bool {
	return a != nil && len(a.APIURL) > 0 && len(a.AuthorizationToken) > 0
}

// PartSize picks the part size to use for large-file splits.
func (a *AuthorizationResp) PartSize() int64 {
	if a.RecommendedPartSize > 0 {
		return a.RecommendedPartSize
	}
	return a.MinimumPartSize
}

// Allowed lists capabilities and any bucket/name restrictions on the key.
type Allowed struct {
	BucketID   string   `json:"bucketId"`     // when present, access is restricted to one bucket
	BucketName string   `json:"bucketName"`   // name of the restricted bucket, when known
	Capability []string `json:"capabilities"` // listKeys, writeKeys, deleteKeys, listBuckets, writeBuckets,
	// deleteBuckets, listFiles, readFiles, shareFiles, writeFiles, deleteFiles
	NamePrefix string `json:"namePrefix"` // when present, access restricted to names with this prefix
}
