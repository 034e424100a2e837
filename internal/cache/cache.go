package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/qezhu/medqc/internal/model"
)

// Cache is the verdict cache interface.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// VerdictKey derives a cache key from the document content and the snapshot
// version it was validated against. Bumping the snapshot invalidates every
// prior entry without any explicit flush.
func VerdictKey(doc model.Document, snapshotVersion uint64) string {
	h := sha256.New()
	h.Write([]byte(doc.DocumentType))
	for _, name := range doc.SectionNames() {
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(doc.Sections[name]))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("medqc:v%d:%s", snapshotVersion, hex.EncodeToString(h.Sum(nil)))
}
