package b2api

// BucketType enumerates the access settings a bucket may carry.
type BucketType int

const (
	All BucketType = 1 + iota
	AllPublic
	AllPrivate
	Snapshot
)

var bucketTypes = [...]string{
	"all", "allPublic", "allPrivate", "snapshot",
}

// String gives the wire value for the type.
func (bt BucketType) String() string {
	if bt < All || bt > Snapshot {
		return ""
	}
	return bucketTypes[bt-1]
}

// ParseBucketType maps a wire value back to its enum, 0 if unknown.
func ParseBucketType(val string) BucketType {
	for i, d := range bucketTypes {
		if d == val {
			return BucketType(i + 1)
		}
	}
	return 0
}
