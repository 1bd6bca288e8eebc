package storage

// Keys of the kv table. accounts holds a JSON object of account snapshots
// keyed by account name.
const (
	keyAccounts       = "accounts"
	keyCurrentAccount = "current account"
)
