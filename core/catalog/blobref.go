package catalog

import (
	"bytes"
	"encoding/json"
)

// BlobRef points to a stored file.
//
// In a submission StorageName still holds the client's original file name until
// it is resolved against the upload batch.
type BlobRef struct {
	StorageName  string `json:"filename"`
	OriginalName string `json:"originalname,omitempty"`
	// Remove asks for the reference to be cleared. Never persisted.
	Remove bool `json:"remove,omitempty"`
}

// IsZero reports whether the reference carries nothing.
func (b BlobRef) IsZero() bool {
	return b.StorageName == "" && b.OriginalName == "" && !b.Remove
}

// UnmarshalJSON also accepts the legacy form where only the storage name was stored.
func (b *BlobRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*b = BlobRef{StorageName: name}
		return nil
	}
	type plain BlobRef
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*b = BlobRef(p)
	return nil
}
