package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

var ErrUnknownAccount = errors.New("unknown account")

// Accounts returns the names of all stored accounts, sorted.
func (d *DB) Accounts(ctx context.Context) ([]string, error) {
	raw, _, err := d.Get(ctx, keyAccounts)
	if err != nil {
		return nil, err
	}
	names := []string{}
	gjson.Parse(raw).ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	sort.Strings(names)
	return names, nil
}

// Account returns the stored snapshot of the named account.
func (d *DB) Account(ctx context.Context, name string) ([]byte, error) {
	raw, _, err := d.Get(ctx, keyAccounts)
	if err != nil {
		return nil, err
	}
	var snapshot []byte
	gjson.Parse(raw).ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			snapshot = []byte(value.Raw)
			return false
		}
		return true
	})
	if snapshot == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, name)
	}
	return snapshot, nil
}

// SaveAccount replaces the stored snapshot of the named account and records
// the write in the save history.
func (d *DB) SaveAccount(ctx context.Context, name string, snapshot []byte) (err error) {
	if !gjson.ValidBytes(snapshot) {
		return fmt.Errorf("account %s: snapshot is not valid JSON", name)
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	raw, ok, err := get(ctx, tx, keyAccounts)
	if err != nil {
		return err
	}
	accounts := map[string]json.RawMessage{}
	if ok {
		if err = json.Unmarshal([]byte(raw), &accounts); err != nil {
			return fmt.Errorf("decoding stored accounts: %w", err)
		}
	}
	accounts[name] = json.RawMessage(snapshot)

	encoded, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	if err = put(ctx, tx, keyAccounts, string(encoded)); err != nil {
		return err
	}

	courses := gjson.GetBytes(snapshot, "courses.#").Int()
	if _, err = tx.ExecContext(ctx, "INSERT INTO account_saves(account, courses, bytes) VALUES(?, ?, ?)", name, courses, len(snapshot)); err != nil {
		return err
	}
	return tx.Commit()
}

// CurrentAccount returns the name of the account commands act on.
func (d *DB) CurrentAccount(ctx context.Context) (string, error) {
	name, ok, err := d.Get(ctx, keyCurrentAccount)
	if err != nil {
		return "", err
	}
	if !ok || name == "" {
		return "", ErrNoCurrentAccount
	}
	return name, nil
}

// SetCurrentAccount selects an existing account.
func (d *DB) SetCurrentAccount(ctx context.Context, name string) error {
	if _, err := d.Account(ctx, name); err != nil {
		return err
	}
	return d.Put(ctx, keyCurrentAccount, name)
}

// History returns the most recent account saves, newest first.
func (d *DB) History(ctx context.Context, limit int) ([]Save, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx, "SELECT occurred_at, account, courses, bytes FROM account_saves ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	saves := []Save{}
	for rows.Next() {
		var (
			s          Save
			occurredAt string
		)
		if err := rows.Scan(&occurredAt, &s.Account, &s.Courses, &s.Bytes); err != nil {
			return nil, err
		}
		s.OccurredAt = parseTimestamp(occurredAt)
		saves = append(saves, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return saves, nil
}
