package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner executes a function inside a MongoDB session transaction so that
// multi-document mutations (accepting a request while creating the friendship
// edge, severing a friendship while recording a block) are all-or-nothing.
type TxRunner struct {
	client *mongo.Client
}

func NewTxRunner(db *mongo.Database) *TxRunner {
	return &TxRunner{client: db.Client()}
}

// Atomic runs fn inside a transaction. Every store call made by fn must use
// the context it receives so the operations join the session.
func (t *TxRunner) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
