package b2cloud

import (
	"github.com/croftbox/b2cloud/b2api"
	"github.com/croftbox/b2cloud/errs"
	"github.com/croftbox/b2cloud/internal/uri"
	"github.com/croftbox/b2cloud/perms"
)

// ListBuckets lists the account's buckets, optionally restricted to the
// given types.
func (c *Cloud) ListBuckets(types ...b2api.BucketType) (*b2api.ListBucketsResp, errs.Error) {
	if er := c.gate(perms.ListBuckets, "listBuckets"); er != nil {
		return nil, er
	}
	bucketTypes := make([]string, 0, len(types))
	for _, d := range types {
		bucketTypes = append(bucketTypes, d.String())
	}
	req := &b2api.ListBucketsReq{
		AccountID:   c.AuthResponse.AccountID,
		BucketTypes: bucketTypes,
	}
	var resp b2api.ListBucketsResp
	if er := c.post(uri.B2ListBuckets, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// BucketByName looks up one bucket by exact name. Zero matches is not an
// error: the returned bucket is nil.
func (c *Cloud) BucketByName(bucketName string) (*b2api.Bucket, errs.Error) {
	if len(bucketName) == 0 {
		return nil, errs.Validation("bucketName is required")
	}
	if er := c.gate(perms.ListBuckets, "listBuckets"); er != nil {
		return nil, er
	}
	req := &b2api.ListBucketsReq{
		AccountID:  c.AuthResponse.AccountID,
		BucketName: bucketName,
	}
	var resp b2api.ListBucketsResp
	if er := c.post(uri.B2ListBuckets, req, &resp); er != nil {
		return nil, er
	}
	for i := range resp.Buckets {
		if resp.Buckets[i].BucketName == bucketName {
			return &resp.Buckets[i], nil
		}
	}
	return nil, nil
}

// CreateBucket creates a bucket. A zero bucketType defaults to allPrivate.
func (c *Cloud) CreateBucket(bucketName string, bucketType b2api.BucketType) (*b2api.CreateBucketResp, errs.Error) {
	if len(bucketName) == 0 {
		return nil, errs.Validation("bucketName is required")
	}
	if er := c.gate(perms.CreateBucket, "createBucket"); er != nil {
		return nil, er
	}
	if bucketType == 0 {
		bucketType = b2api.AllPrivate
	}
	req := &b2api.CreateBucketReq{
		AccountID:  c.AuthResponse.AccountID,
		BucketName: bucketName,
		BucketType: bucketType.String(),
	}
	var resp b2api.CreateBucketResp
	if er := c.post(uri.B2CreateBucket, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// UpdateBucket changes a bucket's type.
func (c *Cloud) UpdateBucket(bucketID string, bucketType b2api.BucketType) (*b2api.UpdateBucketResp, errs.Error) {
	if len(bucketID) == 0 {
		return nil, errs.Validation("bucketId is required")
	}
	if er := c.gate(perms.UpdateBucket, "updateBucket"); er != nil {
		return nil, er
	}
	req := &b2api.UpdateBucketReq{
		AccountID:  c.AuthResponse.AccountID,
		BucketID:   bucketID,
		BucketType: bucketType.String(),
	}
	var resp b2api.UpdateBucketResp
	if er := c.post(uri.B2UpdateBucket, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// DeleteBucket removes an empty bucket from the account.
func (c *Cloud) DeleteBucket(bucketID string) (*b2api.DeleteBucketResp, errs.Error) {
	if len(bucketID) == 0 {
		return nil, errs.Validation("bucketId is required")
	}
	if er := c.gate(perms.DeleteBucket, "deleteBucket"); er != nil {
		return nil, er
	}
	req := &b2api.DeleteBucketReq{
		AccountID: c.AuthResponse.AccountID,
		BucketID:  bucketID,
	}
	var resp b2api.DeleteBucketResp
	if er := c.post(uri.B2DeleteBucket, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}
