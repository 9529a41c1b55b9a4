package b2api

import "encoding/json"

// ListBucketsReq filters are optional; zero values are omitted from the wire.
type ListBucketsReq struct {
	AccountID   string   `json:"accountId"`
	BucketID    string   `json:"bucketId,omitempty"`
	BucketName  string   `json:"bucketName,omitempty"`
	BucketTypes []string `json:"bucketTypes,omitempty"`
}

type ListBucketsResp struct {
	Buckets []Bucket `json:"buckets"`
}

type CreateBucketReq struct {
	AccountID      string           `json:"accountId"`
	BucketName     string           `json:"bucketName"`
	BucketType     string           `json:"bucketType"`
	BucketInfo     string           `json:"bucketInfo,omitempty"`
	CorsRules      []CorsRules      `json:"corsRules,omitempty"`
	LifecycleRules []LifecycleRules `json:"lifecycleRules,omitempty"`
}

type CreateBucketResp struct {
	Bucket
}

type UpdateBucketReq struct {
	AccountID      string           `json:"accountId"`
	BucketID       string           `json:"bucketId"`
	BucketType     string           `json:"bucketType,omitempty"`
	BucketInfo     string           `json:"bucketInfo,omitempty"`
	CorsRules      []CorsRules      `json:"corsRules,omitempty"`
	LifecycleRules []LifecycleRules `json:"lifecycleRules,omitempty"`
}

type UpdateBucketResp struct {
	Bucket
}

type DeleteBucketReq struct {
	AccountID string `json:"accountId"`
	BucketID  string `json:"bucketId"`
}

type DeleteBucketResp struct {
	Bucket
}

// Bucket is a snapshot of a remote bucket; the service owns the state.
type Bucket struct {
	AccountID      string           `json:"accountId"`
	BucketID       string           `json:"bucketId"`
	BucketName     string           `json:"bucketName"`
	BucketType     string           `json:"bucketType"` // "allPublic", "allPrivate", "snapshot"
	BucketInfo     json.RawMessage  `json:"bucketInfo"`
	CorsRules      []CorsRules      `json:"corsRules"`
	LifecycleRules []LifecycleRules `json:"lifecycleRules"`
	Revision       int              `json:"revision"`
}

type CorsRules struct {
	CorsRuleName      string   `json:"corsRuleName"`
	ExposeHeaders     string   `json:"exposeHeaders"`
	MaxAgeSeconds     int      `json:"maxAgeSeconds"`
	AllowedHeaders    []string `json:"allowedHeaders"`
	AllowedOperations []string `json:"allowedOperations"`
	AllowedOrigins    []string `json:"allowedOrigins"`
}

type LifecycleRules struct {
	DaysFromHidingToDeleting  int    `json:"daysFromHidingToDeleting"`
	DaysFromUploadingToHiding int    `json:"daysFromUploadingToHiding"`
	FileNamePrefix            string `json:"fileNamePrefix"`
}
