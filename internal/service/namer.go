package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/mansoorceksport/estatemedia/internal/domain"
	"github.com/oklog/ulid/v2"
)

const storedNamePrefix = "property"

// StorageNamer derives on-disk names for accepted uploads.
// Names are property-<unix millis>-<80 random bits as hex>.<ext>. Nothing in
// the name comes from the client except the lower-cased extension, which the
// validation filter has already matched against the allow-list.
type StorageNamer struct {
	now     func() time.Time
	entropy io.Reader
}

// NewStorageNamer creates a namer backed by crypto/rand
func NewStorageNamer() *StorageNamer {
	return &StorageNamer{now: time.Now, entropy: rand.Reader}
}

// Name returns a fresh stored name for originalName
func (n *StorageNamer) Name(originalName string) (string, error) {
	id, err := ulid.New(ulid.Timestamp(n.now()), n.entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate stored name: %w", err)
	}

	name := fmt.Sprintf("%s-%d-%s", storedNamePrefix, id.Time(), hex.EncodeToString(id.Entropy()))
	if ext := domain.Extension(originalName); ext != "" {
		name += "." + ext
	}
	return name, nil
}
