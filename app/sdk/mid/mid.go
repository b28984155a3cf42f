// Package mid provides app level middleware support.
package mid

import (
	"context"
	"errors"

	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
)

func isError(e web.Encoder) error {
	err, isError := e.(error)
	if isError {
		return err
	}

	return nil
}

// =============================================================================

type ctxKey int

const trKey ctxKey = 1

func setTran(ctx context.Context, tx sqldb.CommitRollbacker) context.Context {
	return context.WithValue(ctx, trKey, tx)
}

// GetTran retrieves the value that can manage a transaction.
func GetTran(ctx context.Context) (sqldb.CommitRollbacker, error) {
	v, ok := ctx.Value(trKey).(sqldb.CommitRollbacker)
	if !ok {
		return nil, errors.New("transaction not found in context")
	}

	return v, nil
}
