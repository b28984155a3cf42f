package sqldb

import (
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Beginner represents a value that can begin a transaction.
type Beginner interface {
	Begin() (CommitRollbacker, error)
}

// CommitRollbacker represents a value that can commit or rollback a transaction.
type CommitRollbacker interface {
	Commit() error
	Rollback() error
}

// AfterCommitter represents a transaction that can run work once it has
// been committed.
type AfterCommitter interface {
	AfterCommit(fn func())
}

// =============================================================================

// dbBeginner implements the Beginner interface.
type dbBeginner struct {
	sqlxDB *sqlx.DB
}

// NewBeginner constructs a value that implements the beginner interface.
func NewBeginner(sqlxDB *sqlx.DB) Beginner {
	return &dbBeginner{
		sqlxDB: sqlxDB,
	}
}

// Begin implements the Beginner interface and returns a concrete value that
// implements the CommitRollbacker interface.
func (db *dbBeginner) Begin() (CommitRollbacker, error) {
	tx, err := db.sqlxDB.Beginx()
	if err != nil {
		return nil, err
	}

	return &Tran{Tx: tx}, nil
}

// =============================================================================

// Tran is the transaction handed out by the beginner. Functions registered
// with AfterCommit run only when Commit succeeds and are dropped on rollback.
type Tran struct {
	*sqlx.Tx

	mu          sync.Mutex
	afterCommit []func()
}

// AfterCommit registers fn to run once the transaction commits.
func (t *Tran) AfterCommit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.afterCommit = append(t.afterCommit, fn)
}

// Commit commits the transaction and then runs the registered functions.
func (t *Tran) Commit() error {
	if err := t.Tx.Commit(); err != nil {
		return err
	}

	t.mu.Lock()
	fns := t.afterCommit
	t.afterCommit = nil
	t.mu.Unlock()

	for _, fn := range fns {
		fn()
	}

	return nil
}

// GetExtContext is a helper function that extracts the sqlx value
// from the domain transactor interface for transactional use.
func GetExtContext(tx CommitRollbacker) (sqlx.ExtContext, error) {
	ec, ok := tx.(sqlx.ExtContext)
	if !ok {
		return nil, fmt.Errorf("Transactor(%T) not of a type *sql.Tx", tx)
	}

	return ec, nil
}
