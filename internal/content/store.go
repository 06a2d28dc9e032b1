package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Kind names an editable entity kind in the overlay store.
type Kind string

const (
	KindSeries     Kind = "series"
	KindCampaign   Kind = "campaign"
	KindBranded    Kind = "branded_campaign"
	KindEvent      Kind = "event"
	KindInitiative Kind = "initiative"
	KindSpecial    Kind = "special"
)

// ValidKind reports whether k names an editable entity kind.
func ValidKind(k Kind) bool {
	switch k {
	case KindSeries, KindCampaign, KindBranded, KindEvent, KindInitiative, KindSpecial:
		return true
	}
	return false
}

var (
	bucketSeries      = []byte("series")
	bucketCampaigns   = []byte("campaigns")
	bucketBranded     = []byte("branded_campaigns")
	bucketEvents      = []byte("events")
	bucketInitiatives = []byte("initiatives")
	bucketSpecials    = []byte("specials")
	bucketAudit       = []byte("audit")
)

func bucketFor(k Kind) []byte {
	switch k {
	case KindSeries:
		return bucketSeries
	case KindCampaign:
		return bucketCampaigns
	case KindBranded:
		return bucketBranded
	case KindEvent:
		return bucketEvents
	case KindInitiative:
		return bucketInitiatives
	case KindSpecial:
		return bucketSpecials
	}
	return nil
}

// AuditEntry records one admin save.
type AuditEntry struct {
	Kind  Kind      `json:"kind"`
	ID    string    `json:"id"`
	Actor string    `json:"actor"`
	At    time.Time `json:"at"`
}

// Store is the bbolt-backed overlay for admin edits. The hand-maintained
// YAML tables stay the system of record for bulk content; the overlay
// holds entities created or edited through the admin API, keyed by id,
// and wins over the base tables when the catalog is rebuilt.
type Store struct {
	db *bolt.DB
}

// OpenStore opens (creating if needed) the overlay database.
func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open overlay database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{
			bucketSeries, bucketCampaigns, bucketBranded,
			bucketEvents, bucketInitiatives, bucketSpecials, bucketAudit,
		} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the overlay database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save validates and persists one entity of the given kind, supplied as
// raw JSON in the API's entity shape. Entities without an id get a
// generated one. Returns the saved id.
func (s *Store) Save(kind Kind, raw json.RawMessage, actor string) (string, error) {
	id, data, err := decodeEntity(kind, raw)
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketFor(kind)).Put([]byte(id), data); err != nil {
			return fmt.Errorf("failed to store %s: %w", kind, err)
		}

		entry := AuditEntry{Kind: kind, ID: id, Actor: actor, At: time.Now().UTC()}
		val, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		key := entry.At.Format(time.RFC3339Nano) + "/" + uuid.New().String()
		return tx.Bucket(bucketAudit).Put([]byte(key), val)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes an overlay entity. Deleting an id that only exists in
// the base tables is not supported; the base tables are edited by hand.
func (s *Store) Delete(kind Kind, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFor(kind)).Delete([]byte(id))
	})
}

// decodeEntity decodes raw JSON into the model type for kind, enforcing
// the minimal shape an entity needs (a title), and assigns an id when the
// payload carries none.
func decodeEntity(kind Kind, raw json.RawMessage) (string, []byte, error) {
	ensureID := func(id *string) {
		if *id == "" {
			*id = uuid.New().String()
		}
	}

	switch kind {
	case KindSeries:
		var v Series
		if err := strictUnmarshal(raw, &v); err != nil {
			return "", nil, err
		}
		if v.Title == "" {
			return "", nil, fmt.Errorf("series title is required")
		}
		if v.Pillar != "" && !ValidPillar(v.Pillar) {
			return "", nil, fmt.Errorf("unknown pillar %q", v.Pillar)
		}
		ensureID(&v.ID)
		data, err := json.Marshal(v)
		return v.ID, data, err
	case KindCampaign:
		var v Campaign
		if err := strictUnmarshal(raw, &v); err != nil {
			return "", nil, err
		}
		if v.Title == "" {
			return "", nil, fmt.Errorf("campaign title is required")
		}
		ensureID(&v.ID)
		data, err := json.Marshal(v)
		return v.ID, data, err
	case KindBranded:
		var v BrandedCampaign
		if err := strictUnmarshal(raw, &v); err != nil {
			return "", nil, err
		}
		if v.Title == "" {
			return "", nil, fmt.Errorf("branded campaign title is required")
		}
		ensureID(&v.ID)
		data, err := json.Marshal(v)
		return v.ID, data, err
	case KindEvent, KindInitiative, KindSpecial:
		var v DatedItem
		if err := strictUnmarshal(raw, &v); err != nil {
			return "", nil, err
		}
		if v.Title == "" {
			return "", nil, fmt.Errorf("%s title is required", kind)
		}
		ensureID(&v.ID)
		data, err := json.Marshal(v)
		return v.ID, data, err
	}
	return "", nil, fmt.Errorf("unknown entity kind %q", kind)
}

func strictUnmarshal(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid entity body: %w", err)
	}
	return nil
}

// Overlay loads the stored edits as content tables.
func (s *Store) Overlay() (*Tables, error) {
	t := &Tables{}
	err := s.db.View(func(tx *bolt.Tx) error {
		if err := collect(tx, bucketSeries, &t.Series); err != nil {
			return err
		}
		if err := collect(tx, bucketCampaigns, &t.Campaigns); err != nil {
			return err
		}
		if err := collect(tx, bucketBranded, &t.BrandedCampaigns); err != nil {
			return err
		}
		if err := collect(tx, bucketEvents, &t.Events); err != nil {
			return err
		}
		if err := collect(tx, bucketInitiatives, &t.Initiatives); err != nil {
			return err
		}
		return collect(tx, bucketSpecials, &t.Specials)
	})
	if err != nil {
		return nil, err
	}
	normalize(t)
	return t, nil
}

func collect[T any](tx *bolt.Tx, bucket []byte, out *[]T) error {
	return tx.Bucket(bucket).ForEach(func(k, v []byte) error {
		var item T
		if err := json.Unmarshal(v, &item); err != nil {
			return fmt.Errorf("corrupt entry %s/%s: %w", bucket, k, err)
		}
		*out = append(*out, item)
		return nil
	})
}

// Audit returns the most recent save records, newest first, up to limit.
func (s *Store) Audit(limit int) ([]AuditEntry, error) {
	var entries []AuditEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketAudit).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var e AuditEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			entries = append(entries, e)
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Merge layers overlay tables over base tables: an overlay entity
// replaces the base entity with the same id, otherwise it is appended.
// Base table order is preserved so display order stays stable.
func Merge(base, overlay Tables) Tables {
	out := Tables{
		Series:           mergeByID(base.Series, overlay.Series, func(s Series) string { return s.ID }),
		Campaigns:        mergeByID(base.Campaigns, overlay.Campaigns, func(c Campaign) string { return c.ID }),
		BrandedCampaigns: mergeByID(base.BrandedCampaigns, overlay.BrandedCampaigns, func(b BrandedCampaign) string { return b.ID }),
		Events:           mergeByID(base.Events, overlay.Events, func(d DatedItem) string { return d.ID }),
		Initiatives:      mergeByID(base.Initiatives, overlay.Initiatives, func(d DatedItem) string { return d.ID }),
		Specials:         mergeByID(base.Specials, overlay.Specials, func(d DatedItem) string { return d.ID }),
	}
	return out
}

func mergeByID[T any](base, overlay []T, id func(T) string) []T {
	replacements := make(map[string]T, len(overlay))
	for _, item := range overlay {
		replacements[id(item)] = item
	}

	out := make([]T, 0, len(base)+len(overlay))
	seen := make(map[string]bool, len(base))
	for _, item := range base {
		if repl, ok := replacements[id(item)]; ok {
			out = append(out, repl)
		} else {
			out = append(out, item)
		}
		seen[id(item)] = true
	}
	for _, item := range overlay {
		if !seen[id(item)] {
			out = append(out, item)
		}
	}
	return out
}
