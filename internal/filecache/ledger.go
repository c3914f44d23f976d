package filecache

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// ledgerBucket persists which local paths have already been checksum
// validated against which SHA-512 digest, so Ready survives process
// restarts without re-hashing the installer on every launch.
const ledgerBucket = "filecache_validated"

type ledgerRecord struct {
	SHA512      string    `json:"sha512"`
	ValidatedAt time.Time `json:"validated_at"`
}

type ledger struct {
	db *bbolt.DB
}

func newLedger(db *bbolt.DB) (*ledger, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(ledgerBucket))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create ledger bucket: %w", err)
	}
	return &ledger{db: db}, nil
}

func (l *ledger) lookup(localPath string) (sha512 string, ok bool) {
	_ = l.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ledgerBucket))
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(localPath))
		if raw == nil {
			return nil
		}
		var rec ledgerRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil
		}
		sha512 = rec.SHA512
		ok = true
		return nil
	})
	return sha512, ok
}

func (l *ledger) record(localPath, sha512 string) error {
	rec := ledgerRecord{SHA512: sha512, ValidatedAt: time.Now()}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal ledger record: %w", err)
	}
	return l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ledgerBucket))
		if b == nil {
			return fmt.Errorf("ledger bucket missing")
		}
		return b.Put([]byte(localPath), data)
	})
}

func (l *ledger) clear(localPath string) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ledgerBucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(localPath))
	})
}
