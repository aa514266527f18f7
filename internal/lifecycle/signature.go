package lifecycle

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
)

// Signature fingerprints raw image content for exact-duplicate matching.
// Identical byte sequences always produce identical signatures; similar but
// re-encoded images do not match.
type Signature struct {
	SHA256    string `json:"sha256"`
	MD5       string `json:"md5"`
	SizeBytes int64  `json:"sizeBytes"`
}

func ComputeSignature(data []byte) Signature {
	sha := sha256.Sum256(data)
	sum := md5.Sum(data)
	return Signature{
		SHA256:    hex.EncodeToString(sha[:]),
		MD5:       hex.EncodeToString(sum[:]),
		SizeBytes: int64(len(data)),
	}
}
