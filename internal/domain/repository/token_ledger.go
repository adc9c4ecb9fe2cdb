package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"remixarena/internal/domain/model"
)

// TokenLedger is the balance/allowance collaborator the contest core settles
// prizes through. The core never assumes more than this surface; the Pg
// implementation below is the demo ledger the platform ships with. Swapping
// in an external token backend only means implementing this interface.
type TokenLedger interface {
	Balance(ctx context.Context, owner string) (int64, error)
	Allowance(ctx context.Context, owner, spender string) (int64, error)
	Approve(ctx context.Context, owner, spender string, amount int64) error
	// Credit mints amount to owner. Backs the demo faucet.
	Credit(ctx context.Context, owner string, amount int64) error
	// TransferFrom moves amount from owner to recipient against owner's
	// allowance for spender, inside the caller's transaction. A failure
	// must abort the whole tx, which is how settlement stays
	// all-or-nothing.
	TransferFrom(ctx context.Context, tx *sql.Tx, owner, spender, recipient string, amount int64) error
}

type pgTokenLedger struct {
	db *sql.DB
}

func NewPgTokenLedger(db *sql.DB) TokenLedger {
	return &pgTokenLedger{db: db}
}

func (l *pgTokenLedger) Balance(ctx context.Context, owner string) (int64, error) {
	query := `SELECT balance FROM token_accounts WHERE address = $1`
	var balance int64
	err := l.db.QueryRowContext(ctx, query, owner).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("pgTokenLedger.Balance: %w", err)
	}
	return balance, nil
}

func (l *pgTokenLedger) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	query := `SELECT amount FROM token_allowances WHERE owner = $1 AND spender = $2`
	var amount int64
	err := l.db.QueryRowContext(ctx, query, owner, spender).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("pgTokenLedger.Allowance: %w", err)
	}
	return amount, nil
}

func (l *pgTokenLedger) Approve(ctx context.Context, owner, spender string, amount int64) error {
	query := `INSERT INTO token_allowances (owner, spender, amount) VALUES ($1, $2, $3)
	          ON CONFLICT (owner, spender) DO UPDATE SET amount = $3`
	if _, err := l.db.ExecContext(ctx, query, owner, spender, amount); err != nil {
		return fmt.Errorf("pgTokenLedger.Approve: %w", err)
	}
	return nil
}

func (l *pgTokenLedger) Credit(ctx context.Context, owner string, amount int64) error {
	query := `INSERT INTO token_accounts (address, balance) VALUES ($1, $2)
	          ON CONFLICT (address) DO UPDATE SET balance = token_accounts.balance + $2`
	if _, err := l.db.ExecContext(ctx, query, owner, amount); err != nil {
		return fmt.Errorf("pgTokenLedger.Credit: %w", err)
	}
	return nil
}

func (l *pgTokenLedger) TransferFrom(ctx context.Context, tx *sql.Tx, owner, spender, recipient string, amount int64) error {
	// Spend allowance first. The guarded UPDATE doubles as the check: no
	// row changes when the remaining allowance is short.
	res, err := tx.ExecContext(ctx,
		`UPDATE token_allowances SET amount = amount - $1
		 WHERE owner = $2 AND spender = $3 AND amount >= $1`,
		amount, owner, spender)
	if err != nil {
		return fmt.Errorf("pgTokenLedger.TransferFrom allowance: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("pgTokenLedger.TransferFrom allowance rows: %w", err)
	} else if n == 0 {
		return model.ErrInsufficientAllowance
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE token_accounts SET balance = balance - $1
		 WHERE address = $2 AND balance >= $1`,
		amount, owner)
	if err != nil {
		return fmt.Errorf("pgTokenLedger.TransferFrom debit: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("pgTokenLedger.TransferFrom debit rows: %w", err)
	} else if n == 0 {
		return model.ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO token_accounts (address, balance) VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET balance = token_accounts.balance + $2`,
		recipient, amount)
	if err != nil {
		return fmt.Errorf("pgTokenLedger.TransferFrom credit: %w", err)
	}
	return nil
}
