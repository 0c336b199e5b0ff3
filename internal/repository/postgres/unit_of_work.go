package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"heritagecatalog/internal/domain"
)

type unitOfWork struct {
	DB *sql.DB
}

// NewUnitOfWork returns a UnitOfWork backed by database transactions.
func NewUnitOfWork(db *sql.DB) domain.UnitOfWork {
	return &unitOfWork{DB: db}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
