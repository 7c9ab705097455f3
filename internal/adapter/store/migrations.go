package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/chittiv1113/Oracle/config"
)

// CurrentSchemaVersion is the highest version in migrationSteps.
const CurrentSchemaVersion = 1

var (
	keySchemaVersion = []byte("schema_version")
	keyConfigHash    = []byte("config_hash")
)

// migrationStep is one strictly ordered schema upgrade. upgrade runs inside
// the same transaction that records the step as applied.
type migrationStep struct {
	Version     int
	Description string
	upgrade     func(tx *bbolt.Tx) error
}

// migrationSteps is the full ordered sequence of schema upgrades this
// implementation has ever shipped, applied in order starting just above a
// store's recorded version.
var migrationSteps = []migrationStep{
	{
		Version:     1,
		Description: "create chunks, by_file, by_hash, by_symbol, by_lang, and meta buckets",
		upgrade: func(tx *bbolt.Tx) error {
			// NewBoltStore already creates every v1 bucket on open; this
			// step exists to occupy schema_migrations(1, applied_at) so
			// later steps have a version to upgrade from.
			return nil
		},
	},
}

// SchemaInfo stores schema version and configuration hash.
type SchemaInfo struct {
	Version    int    `json:"version"`
	ConfigHash string `json:"config_hash"`
}

// appliedMigration is the value recorded per schema_migrations(version) key.
type appliedMigration struct {
	AppliedAt time.Time `json:"applied_at"`
}

func versionKey(version int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(version))
	return key
}

// AppliedVersions returns every schema version recorded in
// schema_migrations, ascending.
func (s *BoltStore) AppliedVersions() ([]int, error) {
	var versions []int
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSchemaMigrations)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if len(k) != 8 {
				return nil
			}
			versions = append(versions, int(binary.BigEndian.Uint64(k)))
			return nil
		})
	})
	return versions, err
}

func (s *BoltStore) recordMigration(tx *bbolt.Tx, step migrationStep, appliedAt time.Time) error {
	b := tx.Bucket(bucketSchemaMigrations)
	if b == nil {
		return fmt.Errorf("schema_migrations bucket missing")
	}
	data, err := json.Marshal(appliedMigration{AppliedAt: appliedAt})
	if err != nil {
		return err
	}
	return b.Put(versionKey(step.Version), data)
}

// GetSchemaInfo retrieves the current schema info from the database.
func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return nil
		}

		if versionData := b.Get(keySchemaVersion); versionData != nil {
			if err := json.Unmarshal(versionData, &info.Version); err != nil {
				info.Version = 1
			}
		}
		if hashData := b.Get(keyConfigHash); hashData != nil {
			info.ConfigHash = string(hashData)
		}
		return nil
	})
	return &info, err
}

// SetSchemaInfo stores the schema info in the database.
func (s *BoltStore) SetSchemaInfo(info *SchemaInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return setSchemaInfoTx(tx, info)
	})
}

func setSchemaInfoTx(tx *bbolt.Tx, info *SchemaInfo) error {
	b := tx.Bucket(bucketMeta)
	versionData, err := json.Marshal(info.Version)
	if err != nil {
		return err
	}
	if err := b.Put(keySchemaVersion, versionData); err != nil {
		return err
	}
	return b.Put(keyConfigHash, []byte(info.ConfigHash))
}

// ComputeConfigHash hashes the subset of configuration that determines a
// chunk's shape, the lexical scoring parameters, or a vector's embedding.
// Changing any of these fields invalidates existing rows and forces a
// rebuild.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		LineWindow      int     `json:"line_window"`
		K1              float64 `json:"k1"`
		B               float64 `json:"b"`
		PathBoostWeight float64 `json:"path_boost_weight"`
		EmbProvider     string  `json:"emb_provider"`
		EmbModel        string  `json:"emb_model"`
		EmbDimension    int     `json:"emb_dimension"`
	}{
		LineWindow:      cfg.Chunk.LineWindow,
		K1:              cfg.Lexical.K1,
		B:               cfg.Lexical.B,
		PathBoostWeight: cfg.Lexical.PathBoostWeight,
		EmbProvider:     cfg.Embedding.Provider,
		EmbModel:        cfg.Embedding.Model,
		EmbDimension:    cfg.Embedding.Dimension,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	NeedsRebuild   bool
	OldVersion     int
	NewVersion     int
	Pending        []migrationStep
	Reason         string
}

// CheckMigration checks if migration or rebuild is needed.
func (s *BoltStore) CheckMigration(cfg *config.Config) (*MigrationResult, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case info.Version == 0:
		result.NeedsMigration = true
		result.Pending = pendingSteps(0)
		result.Reason = "initializing schema version"
	case info.Version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Pending = pendingSteps(info.Version)
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", info.Version, CurrentSchemaVersion)
	case info.Version > CurrentSchemaVersion:
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("database created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
		return result, nil
	}

	newHash := ComputeConfigHash(cfg)
	if info.ConfigHash != "" && info.ConfigHash != newHash {
		result.NeedsRebuild = true
		result.Reason = "index configuration changed"
	}

	return result, nil
}

func pendingSteps(fromVersion int) []migrationStep {
	var pending []migrationStep
	for _, step := range migrationSteps {
		if step.Version > fromVersion {
			pending = append(pending, step)
		}
	}
	return pending
}

// Migrate applies every pending migration step in order, then records the
// current configuration hash. Each step's upgrade, its schema_migrations
// record, and the meta bucket's advanced version are committed together in
// that step's own transaction, so a failure on step N leaves the store at
// exactly step N-1's version rather than at the pre-migration version with
// a partially-applied schema_migrations log.
func (s *BoltStore) Migrate(cfg *config.Config) error {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return fmt.Errorf("failed to get schema info: %w", err)
	}
	configHash := ComputeConfigHash(cfg)

	version := info.Version
	for _, step := range pendingSteps(info.Version) {
		step := step
		err := s.db.Update(func(tx *bbolt.Tx) error {
			if err := step.upgrade(tx); err != nil {
				return fmt.Errorf("migration step %d (%s): %w", step.Version, step.Description, err)
			}
			if err := s.recordMigration(tx, step, time.Now()); err != nil {
				return err
			}
			return setSchemaInfoTx(tx, &SchemaInfo{Version: step.Version, ConfigHash: configHash})
		})
		if err != nil {
			return err
		}
		version = step.Version
	}

	if configHash != info.ConfigHash {
		return s.SetSchemaInfo(&SchemaInfo{Version: version, ConfigHash: configHash})
	}
	return nil
}

// NeedsRebuild checks if the index needs a full rebuild due to config or
// schema version changes.
func (s *BoltStore) NeedsRebuild(cfg *config.Config) (bool, string, error) {
	result, err := s.CheckMigration(cfg)
	if err != nil {
		return false, "", err
	}
	return result.NeedsRebuild, result.Reason, nil
}
