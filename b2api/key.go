package b2api

type CreateKeyReq struct {
	AccountID              string   `json:"accountId"`
	Capabilities           []string `json:"capabilities"`
	KeyName                string   `json:"keyName"`
	ValidDurationInSeconds int64    `json:"validDurationInSeconds,omitempty"`
	BucketID               string   `json:"bucketId,omitempty"`
	NamePrefix             string   `json:"namePrefix,omitempty"`
}

type CreateKeyResp struct {
	Key
	ApplicationKey string `json:"applicationKey"` // secret, only returned at creation
}

type ListKeysReq struct {
	AccountID             string `json:"accountId"`
	MaxKeyCount           int    `json:"maxKeyCount,omitempty"`
	StartApplicationKeyID string `json:"startApplicationKeyId,omitempty"`
}

type ListKeysResp struct {
	Keys                 []Key  `json:"keys"`
	NextApplicationKeyID string `json:"nextApplicationKeyId"`
}

type DeleteKeyReq struct {
	ApplicationKeyID string `json:"applicationKeyId"`
}

type DeleteKeyResp struct {
	Key
}

type Key struct {
	KeyName             string   `json:"keyName"`
	ApplicationKeyID    string   `json:"applicationKeyId"`
	Capabilities        []string `json:"capabilities"`
	AccountID           string   `json:"accountId"`
	ExpirationTimestamp int64    `json:"expirationTimestamp"`
	BucketID            string   `json:"bucketId"`
	NamePrefix          string   `json:"namePrefix"`
}
