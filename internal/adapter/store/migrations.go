package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var ErrSchemaMismatch = errors.New("catalog schema mismatch")

var keySchemaVersion = []byte("schema_version")

// SchemaVersion returns the stored schema version, 0 for a fresh file.
func (c *BoltCatalog) SchemaVersion() (int, error) {
	var version int
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keySchemaVersion)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &version)
	})
	return version, err
}

func (c *BoltCatalog) setSchemaVersion(version int) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(version)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, data)
	})
}

func (c *BoltCatalog) migrate() error {
	version, err := c.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version > CurrentSchemaVersion {
		return fmt.Errorf("%w: catalog created by newer version (v%d > v%d)", ErrSchemaMismatch, version, CurrentSchemaVersion)
	}

	for v := version; v < CurrentSchemaVersion; v++ {
		if err := c.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	if version != CurrentSchemaVersion {
		return c.setSchemaVersion(CurrentSchemaVersion)
	}
	return nil
}

func (c *BoltCatalog) runMigration(from, to int) error {
	switch {
	case from == 0 && to == 1:
		// Fresh file; buckets are created on open.
		return nil
	default:
		return nil
	}
}
