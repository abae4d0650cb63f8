package nats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/logger"
)

const (
	bucketPrefix = "boothsetup"
	// Revisions kept per attribute.
	historyDepth = 16
)

// BucketName returns the key-value bucket for a configuration profile.
// Example: "Main Hall" -> "boothsetup-main-hall"
func BucketName(profile string) string {
	s := slug.Make(profile)
	if s == "" {
		s = "default"
	}
	return bucketPrefix + "-" + s
}

// KVStore keeps a configuration record in a JetStream key-value bucket, one
// key per attribute with the value JSON encoded. Each store runs its own
// embedded server.
type KVStore struct {
	srv *embedded
	kv  jetstream.KeyValue
}

// OpenKVStore starts an embedded server for profile under dataDir and opens
// the profile's bucket. Close releases both.
func OpenKVStore(ctx context.Context, dataDir, profile string) (*KVStore, error) {
	srv, err := startEmbedded(dataDir, profile)
	if err != nil {
		return nil, fmt.Errorf("starting embedded nats: %w", err)
	}

	bucket := BucketName(profile)
	kv, err := srv.js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "boothsetup configuration for profile " + profile,
		History:     historyDepth,
		MaxBytes:    maxStore / 2,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		_ = srv.close()
		return nil, fmt.Errorf("opening bucket %s: %w", bucket, err)
	}

	logger.Debug("Opened configuration bucket %s", bucket)
	return &KVStore{srv: srv, kv: kv}, nil
}

// Bucket returns the bucket name.
func (s *KVStore) Bucket() string {
	return s.kv.Bucket()
}

func (s *KVStore) keys(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return nil, nil
	}
	return keys, err
}

// Load reads every attribute in the bucket. An empty bucket yields an empty
// record.
func (s *KVStore) Load(ctx context.Context) (*config.Configuration, error) {
	keys, err := s.keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}

	cfg := config.New()
	for _, key := range keys {
		entry, err := s.kv.Get(ctx, key)
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}

		v, err := decodeValue(entry.Value())
		if err != nil {
			logger.Warn("Skipping %s: undecodable value: %v", key, err)
			continue
		}
		if err := cfg.Set(key, v); err != nil {
			logger.Warn("Skipping %s: %v", key, err)
		}
	}
	return cfg, nil
}

// Save writes every attribute of cfg and deletes attributes it no longer
// holds.
func (s *KVStore) Save(ctx context.Context, cfg *config.Configuration) error {
	existing, err := s.keys(ctx)
	if err != nil {
		return fmt.Errorf("listing keys: %w", err)
	}

	keys := cfg.Keys()
	for _, key := range keys {
		v, _ := cfg.Get(key)
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		if _, err := s.kv.Put(ctx, key, data); err != nil {
			return fmt.Errorf("writing %s: %w", key, err)
		}
	}

	for _, key := range existing {
		if slices.Contains(keys, key) {
			continue
		}
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
	}

	logger.Debug("Saved %d keys to bucket %s", len(keys), s.Bucket())
	return nil
}

// decodeValue decodes a JSON scalar, keeping whole numbers as integers.
func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	n, ok := v.(json.Number)
	if !ok {
		return v, nil
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	return n.Float64()
}

// Revision is one stored value of an attribute.
type Revision struct {
	Revision uint64
	Value    any
	Deleted  bool
}

// History returns the stored revisions of attribute, oldest first.
func (s *KVStore) History(ctx context.Context, attribute string) ([]Revision, error) {
	entries, err := s.kv.History(ctx, attribute)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history of %s: %w", attribute, err)
	}

	out := make([]Revision, 0, len(entries))
	for _, e := range entries {
		r := Revision{Revision: e.Revision()}
		if e.Operation() != jetstream.KeyValuePut {
			r.Deleted = true
		} else if r.Value, err = decodeValue(e.Value()); err != nil {
			return nil, fmt.Errorf("decoding %s revision %d: %w", attribute, e.Revision(), err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Close shuts down the connection and the embedded server.
func (s *KVStore) Close() error {
	return s.srv.close()
}
