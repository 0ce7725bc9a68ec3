package execdata

import (
	"context"
	"sort"

	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/LambdaTest/covdiff/pkg/errs"
)

// Store maps class identities to the most recently seen execution record.
// It is mutated only while it is being merged and read-only afterwards.
type Store struct {
	records  map[core.ClassID]*core.ExecutionRecord
	names    map[string]int
	sessions []core.SessionInfo
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[core.ClassID]*core.ExecutionRecord),
		names:   make(map[string]int),
	}
}

// Put stores the record, replacing any record with the same identity entirely.
func (s *Store) Put(rec *core.ExecutionRecord) {
	if old, ok := s.records[rec.ID]; ok {
		s.names[old.Name]--
		if s.names[old.Name] == 0 {
			delete(s.names, old.Name)
		}
	}
	s.records[rec.ID] = rec
	s.names[rec.Name]++
}

// Get returns the record stored for the class identity.
func (s *Store) Get(id core.ClassID) (*core.ExecutionRecord, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// ContainsName reports whether any stored record carries the VM class name.
func (s *Store) ContainsName(name string) bool {
	return s.names[name] > 0
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns the stored records ordered by class name, then identity.
func (s *Store) Records() []*core.ExecutionRecord {
	out := make([]*core.ExecutionRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Sessions returns the session infos in visitation order.
func (s *Store) Sessions() []core.SessionInfo {
	return s.sessions
}

// StoreStrategy decides whether a record is kept in the merged store.
type StoreStrategy func(rec *core.ExecutionRecord) bool

// SeenObserver is told about every distinct class identity encountered during a merge.
type SeenObserver func(id core.ClassID)

type mergeOptions struct {
	strategy StoreStrategy
	observer SeenObserver
}

// MergeOption configures Merge.
type MergeOption func(*mergeOptions)

// WithStoreStrategy keeps only the records the strategy accepts.
func WithStoreStrategy(strategy StoreStrategy) MergeOption {
	return func(o *mergeOptions) {
		o.strategy = strategy
	}
}

// WithSeenObserver registers an observer called once per distinct class identity,
// whichever file contributes the final record and whether or not it is stored.
func WithSeenObserver(observer SeenObserver) MergeOption {
	return func(o *mergeOptions) {
		o.observer = observer
	}
}

// FilterStrategy is the store strategy keeping only classes allowed by the filter.
func FilterStrategy(filter core.ClassFilter) StoreStrategy {
	return func(rec *core.ExecutionRecord) bool {
		return filter.Allows(rec.ID)
	}
}

// Merge reads the files in order into a single store. When several files hold a
// record for the same class, the record of the later file replaces the earlier
// one, probes are never combined. Any unreadable or malformed file fails the whole
// merge with an errs.RecordReadError and no store is returned.
func Merge(ctx context.Context, files []string, opts ...MergeOption) (*Store, error) {
	options := mergeOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	store := NewStore()
	seen := make(map[core.ClassID]struct{})
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, sessions, err := readFile(path)
		if err != nil {
			return nil, &errs.RecordReadError{Path: path, Err: err}
		}
		store.sessions = append(store.sessions, sessions...)
		for _, rec := range records {
			if _, ok := seen[rec.ID]; !ok {
				seen[rec.ID] = struct{}{}
				if options.observer != nil {
					options.observer(rec.ID)
				}
			}
			if options.strategy != nil && !options.strategy(rec) {
				continue
			}
			store.Put(rec)
		}
	}
	return store, nil
}

// readFile decodes one file completely before any of its records are applied.
func readFile(path string) ([]*core.ExecutionRecord, []core.SessionInfo, error) {
	in, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer in.Close()

	var records []*core.ExecutionRecord
	var sessions []core.SessionInfo
	reader := NewReader(in)
	reader.OnRecord = func(rec *core.ExecutionRecord) {
		records = append(records, rec)
	}
	reader.OnSession = func(info core.SessionInfo) {
		sessions = append(sessions, info)
	}
	if err := reader.Read(); err != nil {
		return nil, nil, err
	}
	return records, sessions, nil
}
