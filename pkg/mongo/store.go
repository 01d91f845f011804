package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Store implements orders.Store on MongoDB. Row locks are expressed as a
// guard write on the document inside the transaction (ProductForUpdate,
// PaymentForUpdate): a conflicting transaction aborts with a transient error
// and WithTransaction retries it, which serializes the two writers.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// WithinTxn runs fn inside one multi-document transaction. The session rides
// in the context, so every collection call inside fn joins the transaction.
func (s *Store) WithinTxn(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, fn(ctx)
	})
	return err
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
