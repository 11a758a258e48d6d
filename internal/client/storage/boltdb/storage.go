package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketAuth  = []byte("auth")
	bucketTasks = []byte("tasks")
)

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db  *bbolt.DB
	now func() time.Time
}

// Option настраивает Storage
type Option func(*Storage)

// WithClock подменяет источник времени для проверки срока сессии
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	// Файл блокируется на время работы процесса, второй клиент получит ошибку через секунду
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db, now: time.Now}
	for _, opt := range opts {
		opt(storage)
	}

	if err := storage.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAuth, bucketTasks} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// putJSON сериализует value и кладет его по ключу
func (s *Storage) putJSON(bucket, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", bucket, key, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("%s bucket not found", bucket)
		}
		return b.Put(key, data)
	})
}

// getJSON читает значение по ключу в dst; notFound возвращается, если ключа нет
func (s *Storage) getJSON(bucket, key []byte, dst any, notFound error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("%s bucket not found", bucket)
		}

		// Срез валиден только внутри транзакции, Unmarshal копирует данные
		data := b.Get(key)
		if data == nil {
			return notFound
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to unmarshal %s/%s: %w", bucket, key, err)
		}
		return nil
	})
}

// deleteKey удаляет ключ. Если notFound не nil, отсутствие ключа - ошибка
func (s *Storage) deleteKey(bucket, key []byte, notFound error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("%s bucket not found", bucket)
		}
		if notFound != nil && b.Get(key) == nil {
			return notFound
		}
		return b.Delete(key)
	})
}
