package bench

import (
	"encoding/binary"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
)

// Journal persists one row per simulated frame to an embedded pebble
// store, keyed by big-endian frame number so a run's history sorts and
// range-scans in frame order. It records benchmark-run telemetry, not
// broadphase state — a tree rebuilt from a journal would have none of
// its nodes, pairs, or pools restored, only a record of what happened.
type Journal struct {
	db *pebble.DB
}

// OpenJournal opens (creating if necessary) a pebble store at path.
func OpenJournal(path string) (*Journal, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open journal %s", path)
	}
	return &Journal{db: db}, nil
}

// Record appends f to the journal.
func (j *Journal) Record(f FrameStats) error {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(f.Frame))

	data, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "marshal frame stats")
	}

	if err := j.db.Set(key, data, pebble.NoSync); err != nil {
		return errors.Wrap(err, "write frame stats")
	}
	return nil
}

// Each replays every recorded frame, in frame order, to fn.
func (j *Journal) Each(fn func(FrameStats) error) error {
	iter, err := j.db.NewIter(nil)
	if err != nil {
		return errors.Wrap(err, "create journal iterator")
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var f FrameStats
		if err := json.Unmarshal(iter.Value(), &f); err != nil {
			return errors.Wrap(err, "unmarshal frame stats")
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Close releases the underlying pebble store.
func (j *Journal) Close() error {
	return j.db.Close()
}
