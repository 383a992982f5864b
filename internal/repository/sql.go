package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/casting-agency/internal/model"
)

// withTx runs fn inside a transaction.  The transaction is committed when fn
// returns nil and rolled back otherwise, so multi-row mutations either fully
// apply or not at all.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}

// lockRow checks that table.id exists and takes a write lock on it for the
// rest of the transaction.  table is always a package constant.
func lockRow(ctx context.Context, tx *sql.Tx, table string, id uint64) error {
	var got uint64
	err := tx.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE id = ? FOR UPDATE", id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// requireRef checks that a referenced row exists and holds a shared lock on
// it so it cannot be deleted before the referencing write commits.
func requireRef(ctx context.Context, tx *sql.Tx, table string, id uint64) error {
	var got uint64
	err := tx.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE id = ? LOCK IN SHARE MODE", id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s id %d: %w", table, id, ErrInvalidReference)
	}
	return err
}

func intArg(p *int) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func strArg(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func dateArg(p *model.Date) any {
	if p == nil {
		return nil
	}
	return p.Time
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func strPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func datePtr(t sql.NullTime) *model.Date {
	if !t.Valid {
		return nil
	}
	d := model.DateOf(t.Time)
	return &d
}

func lastInsertID(res sql.Result) (uint64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
