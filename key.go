package b2cloud

import (
	"github.com/croftbox/b2cloud/b2api"
	"github.com/croftbox/b2cloud/errs"
	"github.com/croftbox/b2cloud/internal/uri"
	"github.com/croftbox/b2cloud/perms"
)

// CreateKey mints an application key. Scope it to a bucket and name prefix
// by filling bucketID and namePrefix; zero validSecs means non-expiring.
func (c *Cloud) CreateKey(keyName string, capabilities []string, bucketID, namePrefix string, validSecs int64) (*b2api.CreateKeyResp, errs.Error) {
	if len(keyName) == 0 || len(capabilities) == 0 {
		return nil, errs.Validation("keyName and capabilities are required")
	}
	if er := c.gate(perms.CreateKeys, "createKey"); er != nil {
		return nil, er
	}
	req := &b2api.CreateKeyReq{
		AccountID:              c.AuthResponse.AccountID,
		Capabilities:           capabilities,
		KeyName:                keyName,
		ValidDurationInSeconds: validSecs,
		BucketID:               bucketID,
		NamePrefix:             namePrefix,
	}
	var resp b2api.CreateKeyResp
	if er := c.post(uri.B2CreateKey, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// ListKeys returns one page of the account's keys.
func (c *Cloud) ListKeys(startApplicationKeyID string, maxKeyCount int) (*b2api.ListKeysResp, errs.Error) {
	if er := c.gate(perms.ListKeys, "listKeys"); er != nil {
		return nil, er
	}
	req := &b2api.ListKeysReq{
		AccountID:             c.AuthResponse.AccountID,
		MaxKeyCount:           maxKeyCount,
		StartApplicationKeyID: startApplicationKeyID,
	}
	var resp b2api.ListKeysResp
	if er := c.post(uri.B2ListKeys, req, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}

// DeleteKey revokes an application key.
func (c *Cloud) DeleteKey(applicationKeyID string) (*b2api.DeleteKeyResp, errs.Error) {
	if len(applicationKeyID) == 0 {
		return nil, errs.Validation("applicationKeyId is required")
	}
	if er := c.gate(perms.DeleteKeys, "deleteKey"); er != nil {
		return nil, er
	}
	var resp b2api.DeleteKeyResp
	if er := c.post(uri.B2DeleteKey, &b2api.DeleteKeyReq{ApplicationKeyID: applicationKeyID}, &resp); er != nil {
		return nil, er
	}
	return &resp, nil
}
