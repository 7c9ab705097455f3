package store

import (
	"testing"

	"github.com/chittiv1113/Oracle/config"
)

func TestMigrateRecordsAppliedVersion(t *testing.T) {
	st := openTestStore(t)
	cfg := config.DefaultConfig()

	if err := st.Migrate(cfg); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	info, err := st.GetSchemaInfo()
	if err != nil {
		t.Fatalf("GetSchemaInfo failed: %v", err)
	}
	if info.Version != CurrentSchemaVersion {
		t.Errorf("expected version %d, got %d", CurrentSchemaVersion, info.Version)
	}

	versions, err := st.AppliedVersions()
	if err != nil {
		t.Fatalf("AppliedVersions failed: %v", err)
	}
	if len(versions) != 1 || versions[0] != 1 {
		t.Errorf("expected [1] applied, got %v", versions)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	st := openTestStore(t)
	cfg := config.DefaultConfig()

	if err := st.Migrate(cfg); err != nil {
		t.Fatalf("first Migrate failed: %v", err)
	}
	if err := st.Migrate(cfg); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	versions, err := st.AppliedVersions()
	if err != nil {
		t.Fatalf("AppliedVersions failed: %v", err)
	}
	if len(versions) != 1 {
		t.Errorf("expected exactly one applied record after re-running Migrate, got %v", versions)
	}
}

func TestMigratePersistsConfigHashOnRebuildWithNoSchemaChange(t *testing.T) {
	st := openTestStore(t)
	cfg := config.DefaultConfig()

	if err := st.Migrate(cfg); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	cfg.Lexical.K1 = 2.0
	if err := st.Migrate(cfg); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	info, err := st.GetSchemaInfo()
	if err != nil {
		t.Fatalf("GetSchemaInfo failed: %v", err)
	}
	if info.ConfigHash != ComputeConfigHash(cfg) {
		t.Errorf("expected config hash to be updated after a rebuild-only migration, got %q", info.ConfigHash)
	}
	if info.Version != CurrentSchemaVersion {
		t.Errorf("expected version to remain %d, got %d", CurrentSchemaVersion, info.Version)
	}
}

func TestCheckMigrationReportsPendingSteps(t *testing.T) {
	st := openTestStore(t)
	cfg := config.DefaultConfig()

	result, err := st.CheckMigration(cfg)
	if err != nil {
		t.Fatalf("CheckMigration failed: %v", err)
	}
	if !result.NeedsMigration {
		t.Error("expected a fresh store to need migration")
	}
	if len(result.Pending) != 1 || result.Pending[0].Version != 1 {
		t.Errorf("expected one pending step at version 1, got %v", result.Pending)
	}

	if err := st.Migrate(cfg); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	result, err = st.CheckMigration(cfg)
	if err != nil {
		t.Fatalf("CheckMigration failed: %v", err)
	}
	if result.NeedsMigration {
		t.Error("expected no pending migration after Migrate")
	}
	if len(result.Pending) != 0 {
		t.Errorf("expected no pending steps, got %v", result.Pending)
	}
}
