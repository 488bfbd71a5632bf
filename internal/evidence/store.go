// Package evidence stores challan evidence images by content hash.
package evidence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const refPrefix = "sha256:"

// Store persists evidence blobs. Put returns a "sha256:<hex>" reference and is idempotent
// for identical content.
type Store interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
}

// Ref is the reference Put returns for data, known before the blob is written.
func Ref(data []byte) string {
	ref, _ := contentRef(data)
	return ref
}

func contentRef(data []byte) (ref, digest string) {
	sum := sha256.Sum256(data)
	digest = hex.EncodeToString(sum[:])
	return refPrefix + digest, digest
}

func parseRef(ref string) (string, error) {
	digest, ok := strings.CutPrefix(ref, refPrefix)
	if !ok || len(digest) != sha256.Size*2 {
		return "", fmt.Errorf("invalid evidence reference %q", ref)
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return "", fmt.Errorf("invalid evidence reference %q", ref)
	}
	return digest, nil
}
