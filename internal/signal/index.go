package signal

import "github.com/inodb/vibe-enhancer/internal/variant"

// Index maps normalized variant ids to their signal record.
// When a variant appears more than once the last record wins.
type Index map[string]Record

// LoadIndex reads every record from a JSONL file into an Index.
func LoadIndex(path string) (Index, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadIndex(r)
}

// ReadIndex drains a Reader into an Index.
func ReadIndex(r *Reader) (Index, error) {
	idx := make(Index)
	for {
		rec, err := r.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return idx, nil
		}
		idx[rec.VariantID] = *rec
	}
}

// Lookup returns the record for a variant id. The id is normalized first,
// so "chr12_..." and "12_..." resolve to the same record.
func (idx Index) Lookup(id string) (Record, bool) {
	r, ok := idx[variant.NormalizeID(id)]
	return r, ok
}
