package rankeval

import (
	"fmt"

	"github.com/ricesearch/rank-eval/internal/pkg/hash"
)

// documentKeyMinSize is the encoded size of a key with two empty strings.
const documentKeyMinSize = 8

// DocumentKey identifies a rated document by index name and document id.
type DocumentKey struct {
	Index string `json:"_index" yaml:"index"`
	DocID string `json:"_id" yaml:"id"`
}

// NewDocumentKey creates a document key.
func NewDocumentKey(index, docID string) DocumentKey {
	return DocumentKey{Index: index, DocID: docID}
}

// Equal reports whether both fields match.
func (k DocumentKey) Equal(other DocumentKey) bool {
	return k == other
}

// Hash returns a structural hash of the key.
func (k DocumentKey) Hash() uint64 {
	h := hash.NewHasher()
	k.hashInto(h)
	return h.Sum64()
}

func (k DocumentKey) hashInto(h *hash.Hasher) {
	h.String(k.Index).String(k.DocID)
}

// Encode writes the index then the document id, each length-prefixed.
func (k DocumentKey) Encode(out *StreamOutput) {
	out.WriteString(k.Index)
	out.WriteString(k.DocID)
}

// ReadDocumentKey reads a key written by Encode.
func ReadDocumentKey(in *StreamInput) (DocumentKey, error) {
	index, err := in.ReadString()
	if err != nil {
		return DocumentKey{}, err
	}
	docID, err := in.ReadString()
	if err != nil {
		return DocumentKey{}, err
	}
	return DocumentKey{Index: index, DocID: docID}, nil
}

func (k DocumentKey) String() string {
	return fmt.Sprintf("%s/%s", k.Index, k.DocID)
}
