package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"parasearch/internal/domain"
)

var (
	bucketDocs = []byte("docs")
	bucketMeta = []byte("meta")
)

// BoltCatalog is a document catalog persisted in a bbolt file.
type BoltCatalog struct {
	db *bbolt.DB
}

// OpenCatalog opens or creates the catalog at path. Files written by a newer
// schema are refused with ErrSchemaMismatch.
func OpenCatalog(path string) (*BoltCatalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketDocs, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	c := &BoltCatalog{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}

func (c *BoltCatalog) Close() error {
	return c.db.Close()
}

type docMeta struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
}

func (c *BoltCatalog) PutDoc(doc domain.Document) error {
	return c.PutDocs([]domain.Document{doc})
}

// PutDocs writes documents in one transaction, replacing existing IDs.
func (c *BoltCatalog) PutDocs(docs []domain.Document) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocs)
		for _, doc := range docs {
			if doc.ID == "" {
				return fmt.Errorf("document with empty id")
			}
			data, err := json.Marshal(docMeta{
				Title:    doc.Title,
				Authors:  doc.Authors,
				Abstract: doc.Abstract,
			})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(doc.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *BoltCatalog) GetDoc(id string) (domain.Document, error) {
	var doc domain.Document
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
		}
		var meta docMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("corrupt document %s: %w", id, err)
		}
		doc = domain.Document{
			ID:       id,
			Title:    meta.Title,
			Authors:  meta.Authors,
			Abstract: meta.Abstract,
		}
		return nil
	})
	return doc, err
}

func (c *BoltCatalog) DeleteDoc(id string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).Delete([]byte(id))
	})
}

// ListDocs returns all documents in ID order.
func (c *BoltCatalog) ListDocs() ([]domain.Document, error) {
	var docs []domain.Document
	err := c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var meta docMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			docs = append(docs, domain.Document{
				ID:       string(k),
				Title:    meta.Title,
				Authors:  meta.Authors,
				Abstract: meta.Abstract,
			})
			return nil
		})
	})
	return docs, err
}

func (c *BoltCatalog) Count() (int, error) {
	var n int
	err := c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketDocs).Stats().KeyN
		return nil
	})
	return n, err
}

// Clear removes every document but keeps schema metadata.
func (c *BoltCatalog) Clear() error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketDocs); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketDocs)
		return err
	})
}
