// Package boltdb is an embedded single-node store backed by bbolt.
//
// Every unit of work runs in one bbolt write transaction. bbolt allows a single
// writer at a time, so redemptions are fully serialized.
package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"go.etcd.io/bbolt"
)

var (
	usersBucket         = []byte("users")
	usersByEmailBucket  = []byte("users_by_email")
	tokensBucket        = []byte("approval_tokens")
	tokensByValueBucket = []byte("approval_tokens_by_value")

	allBuckets = [][]byte{
		usersBucket, usersByEmailBucket, tokensBucket, tokensByValueBucket,
		[]byte(pendingExpensesBucket),
		[]byte(approvedExpensesBucket), originIndex(approvedExpensesBucket),
		[]byte(rejectedExpensesBucket), originIndex(rejectedExpensesBucket),
	}
)

// Store owns the bbolt handle.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the database file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UnitOfWork:    &unitOfWork{db: s.db},
		UserRepo:      &userRepository{db: s.db},
		DashboardRepo: &dashboardRepository{db: s.db},
	}
}

type unitOfWork struct {
	db *bbolt.DB
}

var _ portsrepo.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewTransactionError("failed to begin transaction", err)
	}

	var fnErr error
	err := u.db.Update(func(tx *bbolt.Tx) error {
		fnErr = fn(ctx, portsrepo.TxRepositories{
			Expenses: &expenseRepository{tx: tx},
			Tokens:   &approvalTokenRepository{tx: tx},
		})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return apperrors.NewTransactionError("failed to commit transaction", err)
	}
	return nil
}

// itob encodes an id as a big-endian key so cursor order is id order.
func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func btoi(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

func put(b *bbolt.Bucket, id int64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling record %d: %w", id, err)
	}
	return b.Put(itob(id), data)
}

// get reports false when id is absent.
func get(b *bbolt.Bucket, id int64, v any) (bool, error) {
	data := b.Get(itob(id))
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("unmarshaling record %d: %w", id, err)
	}
	return true, nil
}

// nextID allocates the next id of bucket b.
func nextID(b *bbolt.Bucket) (int64, error) {
	seq, err := b.NextSequence()
	if err != nil {
		return 0, fmt.Errorf("allocating id: %w", err)
	}
	return int64(seq), nil
}

// forEach decodes every record of b into a fresh T, in id order.
func forEach[T any](b *bbolt.Bucket, fn func(T) error) error {
	return b.ForEach(func(_, v []byte) error {
		var rec T
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("unmarshaling record: %w", err)
		}
		return fn(rec)
	})
}
