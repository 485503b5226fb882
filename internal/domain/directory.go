package domain

// Directory is the complete in-memory set of accounts, in signup order.
type Directory struct {
	Accounts []*Account
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{Accounts: []*Account{}}
}

// Find returns the account whose email matches case-insensitively, or nil.
func (d *Directory) Find(email string) *Account {
	key := EmailKey(email)
	for _, account := range d.Accounts {
		if account.Key() == key {
			return account
		}
	}
	return nil
}

// Add appends an account. Callers check uniqueness first.
func (d *Directory) Add(account *Account) {
	d.Accounts = append(d.Accounts, account)
}

// Clone returns a deep copy of the directory.
func (d *Directory) Clone() *Directory {
	clone := &Directory{Accounts: make([]*Account, len(d.Accounts))}
	for i, account := range d.Accounts {
		clone.Accounts[i] = account.Clone()
	}
	return clone
}
