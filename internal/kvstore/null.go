package kvstore

// NullStore is the no-persistence-configured implementation: every write
// is discarded and every read reports absence, used when the
// configuration document's `restore` directory is unset.
type NullStore struct{}

func (NullStore) Put(key string, data []byte) error        { return nil }
func (NullStore) Get(key string) ([]byte, bool, error)      { return nil, false, nil }
func (NullStore) Delete(key string) error                  { return nil }
func (NullStore) List() ([]string, error)                  { return nil, nil }
