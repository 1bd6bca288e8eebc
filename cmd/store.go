package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/sw33tLie/degreeaudit/internal/utils"
	"github.com/sw33tLie/degreeaudit/pkg/catalog"
	"github.com/sw33tLie/degreeaudit/pkg/degree"
	"github.com/sw33tLie/degreeaudit/pkg/storage"
)

func dbPath() (string, error) {
	return utils.GetAbsDBPath(viper.GetString("db.path"))
}

func openStore() (*storage.DB, error) {
	path, err := dbPath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// withStore opens the account store for a read-only command.
func withStore(fn func(db *storage.DB) error) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

// withLockedStore holds the store lock for the whole of fn.
func withLockedStore(fn func(db *storage.DB) error) error {
	path, err := dbPath()
	if err != nil {
		return err
	}
	lock, err := utils.NewStoreLock(path)
	if err != nil {
		return err
	}
	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			utils.Log.Warn(err)
		}
	}()
	return withStore(fn)
}

// loadCatalog reads the configured catalog. Without one every course is
// unresolved, which the audit logic treats as ready to take.
func loadCatalog() (*catalog.Static, error) {
	path := viper.GetString("catalog.path")
	if path == "" {
		utils.Log.Warn("No course catalog configured (--catalog or catalog.path); prerequisites will not be checked.")
		return catalog.NewStatic(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	utils.Log.Debugf("Loaded %d courses from %s", cat.Len(), path)
	return cat, nil
}

func currentAccount(ctx context.Context, db *storage.DB) (*degree.Account, error) {
	name, err := db.CurrentAccount(ctx)
	if errors.Is(err, storage.ErrNoCurrentAccount) {
		return nil, fmt.Errorf("%w: run 'degreeaudit import' or 'degreeaudit db use NAME' first", err)
	}
	if err != nil {
		return nil, err
	}
	data, err := db.Account(ctx, name)
	if err != nil {
		return nil, err
	}
	return degree.LoadAccount(data, db)
}
