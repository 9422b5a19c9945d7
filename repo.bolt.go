package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var _ BookArchiver = (*boltBookArchive)(nil) // ensure boltBookArchive implements BookArchiver.

// BookArchiver keeps a warm local copy of the catalog, fed by the
// change queue consumer. It is a replica, not the source of truth.
type BookArchiver interface {
	Put(ctx context.Context, id string, book Book) error
	Get(ctx context.Context, id string) (Book, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]Book, error)
	Close() error
}

type boltBookArchive struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltBookArchive provides an instance of bolt-based catalog archive.
func NewBoltBookArchive(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) BookArchiver {
	return &boltBookArchive{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based catalog archive.
func (ba *boltBookArchive) Close() error {
	return ba.client.Close()
}

// Put stores a copy of the book record into the archive bucket.
func (ba *boltBookArchive) Put(_ context.Context, id string, book Book) error {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return err
	}
	err = ba.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(ba.config.BucketName)).Put([]byte(id), bookBytes)
	})
	return err
}

// Get retrieves an archived book record based on its ID.
func (ba *boltBookArchive) Get(_ context.Context, id string) (Book, error) {
	var book Book
	// initialize a readable transaction.
	tx, err := ba.client.Begin(false)
	if err != nil {
		return book, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(ba.config.BucketName)).Get([]byte(id))
	if result == nil {
		return book, ErrBookNotFound
	}
	err = json.Unmarshal(result, &book)
	return book, err
}

// Remove drops an archived book record based on its ID.
func (ba *boltBookArchive) Remove(_ context.Context, id string) error {
	return ba.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(ba.config.BucketName)).Delete([]byte(id))
	})
}

// List retrieves all book records present in the archive bucket.
func (ba *boltBookArchive) List(_ context.Context) ([]Book, error) {
	tx, err := ba.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Create a cursor on the archive bucket.
	c := tx.Bucket([]byte(ba.config.BucketName)).Cursor()

	books := []Book{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if err = json.Unmarshal(v, &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}
