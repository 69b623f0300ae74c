package store

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"
)

// LevelDB is a LevelDB backed Store.
type LevelDB struct {
	db  *leveldb.DB
	log *zap.SugaredLogger
}

// OpenLevelDB opens or creates the database at path.
func OpenLevelDB(path string, log *zap.SugaredLogger) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open leveldb at %s", path)
	}
	return newLevelDB(db, log), nil
}

// NewMemory returns a LevelDB store kept in memory.
func NewMemory(log *zap.SugaredLogger) (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open in-memory leveldb")
	}
	return newLevelDB(db, log), nil
}

func newLevelDB(db *leveldb.DB, log *zap.SugaredLogger) *LevelDB {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LevelDB{db: db, log: log}
}

func (s *LevelDB) Save(name string, r Record) error {
	data, err := encodeRecord(r)
	if err != nil {
		return errors.Wrapf(err, "cannot encode queue %s", name)
	}
	if err := s.db.Put(toKey(name), data, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrapf(err, "cannot save queue %s", name)
	}
	s.log.Debugw("queue saved", "name", name, "spans", len(r.Spans), "bytes", len(data))
	return nil
}

func (s *LevelDB) Load(name string) (Record, error) {
	data, err := s.db.Get(toKey(name), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return Record{}, errors.Wrapf(ErrNotFound, "cannot load queue %s", name)
	}
	if err != nil {
		return Record{}, errors.Wrapf(err, "cannot load queue %s", name)
	}
	r, err := decodeRecord(data)
	if err != nil {
		return Record{}, errors.Wrapf(err, "cannot decode queue %s", name)
	}
	return r, nil
}

func (s *LevelDB) Delete(name string) error {
	key := toKey(name)
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return errors.Wrapf(err, "cannot delete queue %s", name)
	}
	if !ok {
		return errors.Wrapf(ErrNotFound, "cannot delete queue %s", name)
	}
	if err := s.db.Delete(key, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrapf(err, "cannot delete queue %s", name)
	}
	s.log.Debugw("queue deleted", "name", name)
	return nil
}

func (s *LevelDB) List() ([]string, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{queuePrefix}), nil)
	defer iter.Release()

	var names []string
	for iter.Next() {
		names = append(names, fromKey(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "cannot list queues")
	}
	return names, nil
}

func (s *LevelDB) Close() error {
	s.log.Debugf("closing")
	return s.db.Close()
}
