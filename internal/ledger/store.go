package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

var (
	// ErrBlobNotFound is returned by Blobs.Get for a name that was never written.
	ErrBlobNotFound = errors.New("ledger: blob not found")
	// ErrBlobUnreadable marks a blob whose load failed; it is never overwritten
	// by this Store.
	ErrBlobUnreadable = errors.New("ledger: blob unreadable at load, not saving")
)

// BackupSuffix is appended to a blob name to keep malformed content aside
// before the first overwrite.
const BackupSuffix = ".bak"

// Blobs persists named documents. The store writes whole documents only.
type Blobs interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
}

// Store owns every DailyData record plus the free-text note. Every mutation
// rewrites the full document; write failures are logged and remembered in
// Err but never stop the in-memory update. A Store is used from the UI
// goroutine only.
type Store struct {
	blobs Blobs
	log   zerolog.Logger
	days  map[string]DailyData
	note  string
	err   error

	// held maps blobs that failed to load to their read error.
	held map[string]error
	// backup holds malformed content still to be copied aside.
	backup map[string][]byte
}

// Load reads the persisted store and note. Missing or unreadable data yields
// an empty store; Load never fails. A blob that could not be read is left
// alone for the rest of the session, and malformed content is copied to
// name+BackupSuffix before it is first replaced.
func Load(ctx context.Context, blobs Blobs, log zerolog.Logger) *Store {
	s := &Store{
		blobs:  blobs,
		log:    log,
		days:   map[string]DailyData{},
		held:   map[string]error{},
		backup: map[string][]byte{},
	}

	data, err := blobs.Get(ctx, StoreBlob)
	switch {
	case errors.Is(err, ErrBlobNotFound):
	case err != nil:
		s.hold(StoreBlob, err)
	default:
		days, err := Decode(data)
		if err != nil {
			log.Warn().Err(err).Str("blob", StoreBlob).Msg("malformed store, starting empty")
			s.backup[StoreBlob] = data
		} else {
			s.days = days
		}
	}

	note, err := blobs.Get(ctx, NoteBlob)
	switch {
	case errors.Is(err, ErrBlobNotFound):
	case err != nil:
		s.hold(NoteBlob, err)
	default:
		s.note = string(note)
	}

	log.Debug().Int("days", len(s.days)).Msg("store loaded")
	return s
}

// Decode parses the persisted JSON mapping. Records are re-keyed so that
// each record's date equals its key.
func Decode(data []byte) (map[string]DailyData, error) {
	out := map[string]DailyData{}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	var raw map[string]DailyData
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}
	for key, d := range raw {
		d.Date = key
		if d.Items == nil {
			d.Items = []ConsumptionItem{}
		}
		out[key] = d
	}
	return out, nil
}

// Encode renders the mapping with sorted keys so equal stores encode to
// identical bytes.
func Encode(days map[string]DailyData) ([]byte, error) {
	if days == nil {
		days = map[string]DailyData{}
	}
	data, err := sonic.ConfigStd.Marshal(days)
	if err != nil {
		return nil, fmt.Errorf("encode store: %w", err)
	}
	return data, nil
}

// Get returns the record for key, or an empty record carrying key.
func (s *Store) Get(key string) DailyData {
	if d, ok := s.days[key]; ok {
		return d.clone()
	}
	return DailyData{Date: key, Items: []ConsumptionItem{}}
}

// SetItems replaces the item list of key, creating the record if needed, and
// persists the whole store.
func (s *Store) SetItems(ctx context.Context, key string, items []ConsumptionItem) DailyData {
	d := DailyData{Date: key, Items: make([]ConsumptionItem, len(items))}
	copy(d.Items, items)
	s.days[key] = d
	s.persist(ctx)
	return d.clone()
}

// All returns every record sorted by ascending date.
func (s *Store) All() []DailyData {
	out := make([]DailyData, 0, len(s.days))
	for _, d := range s.days {
		out = append(out, d.clone())
	}
	return SortByDate(out)
}

// Snapshot returns a deep copy of the mapping.
func (s *Store) Snapshot() map[string]DailyData {
	out := make(map[string]DailyData, len(s.days))
	for k, d := range s.days {
		out[k] = d.clone()
	}
	return out
}

// Len is the number of stored records.
func (s *Store) Len() int { return len(s.days) }

// Totals maps every stored day-key to its total.
func (s *Store) Totals() map[string]float64 {
	out := make(map[string]float64, len(s.days))
	for k, d := range s.days {
		out[k] = d.Total()
	}
	return out
}

// Names lists distinct item names in chronological order of first use,
// skipping the placeholder name.
func (s *Store) Names() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, d := range s.All() {
		for _, it := range d.Items {
			if it.Name == "" || it.Name == DefaultItemName {
				continue
			}
			if _, ok := seen[it.Name]; ok {
				continue
			}
			seen[it.Name] = struct{}{}
			out = append(out, it.Name)
		}
	}
	return out
}

func (s *Store) Note() string { return s.note }

// SetNote stores the raw note text.
func (s *Store) SetNote(ctx context.Context, text string) {
	s.note = text
	if err := s.write(ctx, NoteBlob, []byte(text)); err != nil {
		s.err = err
		s.log.Error().Err(err).Str("blob", NoteBlob).Msg("save note failed")
	}
}

// Err returns the most recent persistence error, or nil.
func (s *Store) Err() error { return s.err }

func (s *Store) persist(ctx context.Context) {
	data, err := Encode(s.days)
	if err == nil {
		err = s.write(ctx, StoreBlob, data)
	}
	if err != nil {
		s.err = err
		s.log.Error().Err(err).Str("blob", StoreBlob).Msg("save store failed")
		return
	}
	s.err = nil
}

func (s *Store) hold(name string, err error) {
	s.held[name] = err
	s.err = fmt.Errorf("%w: %s: %v", ErrBlobUnreadable, name, err)
	s.log.Warn().Err(err).Str("blob", name).Msg("read failed, edits stay in memory")
}

// write puts data under name unless the blob is held, saving any pending
// backup first.
func (s *Store) write(ctx context.Context, name string, data []byte) error {
	if err, ok := s.held[name]; ok {
		return fmt.Errorf("%w: %s: %v", ErrBlobUnreadable, name, err)
	}
	if raw, ok := s.backup[name]; ok {
		if err := s.blobs.Put(ctx, name+BackupSuffix, raw); err != nil {
			return fmt.Errorf("backup %s: %w", name, err)
		}
		delete(s.backup, name)
	}
	return s.blobs.Put(ctx, name, data)
}
