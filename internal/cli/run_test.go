package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRecordsRejectsBothURLAndList(t *testing.T) {
	if _, err := loadRecords("vless://id@h:443?type=tcp", "somefile.txt"); err == nil {
		t.Fatal("expected error when both --url and --list are set")
	}
}

func TestLoadRecordsRejectsNeitherURLNorList(t *testing.T) {
	if _, err := loadRecords("", ""); err == nil {
		t.Fatal("expected error when neither --url nor --list is set")
	}
}

func TestLoadRecordsFromURL(t *testing.T) {
	records, err := loadRecords("vless://id@h:443?type=tcp", "")
	if err != nil {
		t.Fatalf("loadRecords returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestLoadRecordsFromListFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodes.txt")
	content := "vless://id@h:443?type=tcp\nss://aes-128-gcm:secret@h:8388\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture list: %v", err)
	}

	records, err := loadRecords("", path)
	if err != nil {
		t.Fatalf("loadRecords returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestLoadRecordsMissingListFile(t *testing.T) {
	if _, err := loadRecords("", "/does/not/exist.txt"); err == nil {
		t.Fatal("expected error for a missing list file")
	}
}
