package attributes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

// LocalStore keeps attributes in badger under "<domain>/<identifier>". The
// attribute list is stored in insertion order.
type LocalStore struct {
	db *badger.DB
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	opts := badger.DefaultOptions(filepath.Join(root, "attributes_badger"))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &LocalStore{db: db}, nil
}

func itemKey(domain, identifier string) []byte {
	return []byte(domain + "/" + identifier)
}

// Put replaces the attributes of an item.
func (s *LocalStore) Put(domain, identifier string, attrs []Attribute) error {
	if domain == "" || identifier == "" {
		return errors.New("domain and identifier are required")
	}

	data, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("failed to marshal attributes: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(itemKey(domain, identifier), data)
	})
}

// Get returns all attributes of an item, nil when the item is unknown.
func (s *LocalStore) Get(domain, identifier string) ([]Attribute, error) {
	var attrs []Attribute
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(itemKey(domain, identifier))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &attrs)
		})
	})
	return attrs, err
}

func (s *LocalStore) Delete(domain, identifier string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(itemKey(domain, identifier))
	})
}

func (s *LocalStore) Lookup(ctx context.Context, domain, identifier string) (Attribute, bool, error) {
	if err := ctx.Err(); err != nil {
		return Attribute{}, false, queryError(domain, identifier, err)
	}
	if domain == "" {
		return Attribute{}, false, queryError(domain, identifier, errors.New("domain name is empty"))
	}

	attrs, err := s.Get(domain, identifier)
	if err != nil {
		return Attribute{}, false, queryError(domain, identifier, err)
	}
	if len(attrs) == 0 {
		return Attribute{}, false, nil
	}
	return attrs[0], true, nil
}

func (s *LocalStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
