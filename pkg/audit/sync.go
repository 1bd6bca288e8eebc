package audit

import (
	"context"
	"errors"

	"github.com/sw33tLie/degreeaudit/pkg/catalog"
	"github.com/sw33tLie/degreeaudit/pkg/degree"
	"github.com/sw33tLie/degreeaudit/pkg/storage"
)

// Store is the part of the account store an import needs.
type Store interface {
	degree.Persister
	Account(ctx context.Context, name string) ([]byte, error)
	SetCurrentAccount(ctx context.Context, name string) error
}

// OpenAccount loads the page's student account, or starts a new one. The
// GPA and concentrations always come from the page.
func OpenAccount(ctx context.Context, store Store, page *Page) (*degree.Account, error) {
	data, err := store.Account(ctx, page.Student)
	if errors.Is(err, storage.ErrUnknownAccount) {
		return degree.NewAccount(page.Student, page.GPA, page.Concentrations, store), nil
	}
	if err != nil {
		return nil, err
	}
	acct, err := degree.LoadAccount(data, store)
	if err != nil {
		return nil, err
	}
	acct.UpdateProfile(page.GPA, page.Concentrations)
	return acct, nil
}

// Sync merges the page into the student's stored account and makes it the
// current account.
func Sync(ctx context.Context, store Store, cat catalog.Catalog, page *Page) (*degree.Account, Summary, error) {
	acct, err := OpenAccount(ctx, store, page)
	if err != nil {
		return nil, Summary{}, err
	}
	sum, err := Build(ctx, page, cat, acct)
	if err != nil {
		return nil, sum, err
	}
	if err := store.SetCurrentAccount(ctx, acct.Name()); err != nil {
		return nil, sum, err
	}
	return acct, sum, nil
}
