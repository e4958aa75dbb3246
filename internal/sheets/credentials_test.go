package sheets

import (
	"os"
	"testing"

	gsheets "google.golang.org/api/sheets/v4"
)

func TestResolveCredentialsFilePassthrough(t *testing.T) {
	path, err := ResolveCredentialsFile("", "credentials.json")
	if err != nil {
		t.Fatalf("resolve credentials: %v", err)
	}
	if path != "credentials.json" {
		t.Fatalf("expected local file path, got %q", path)
	}
}

func TestResolveCredentialsFileWritesBlob(t *testing.T) {
	blob := `{"type":"service_account","project_id":"demo"}`

	path, err := ResolveCredentialsFile(blob, "credentials.json")
	if err != nil {
		t.Fatalf("resolve credentials: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	if path == "credentials.json" {
		t.Fatal("expected a temporary file, got the local path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read credentials file: %v", err)
	}
	if string(data) != blob {
		t.Fatalf("unexpected file contents: %s", data)
	}
}

func TestResolveCredentialsFileRejectsInvalidJSON(t *testing.T) {
	if _, err := ResolveCredentialsFile("{not json", "credentials.json"); err == nil {
		t.Fatal("expected error for invalid JSON blob")
	}
}

func TestClientScopes(t *testing.T) {
	want := map[string]bool{
		gsheets.SpreadsheetsScope: false,
		gsheets.DriveScope:        false,
	}
	for _, scope := range clientScopes {
		if _, ok := want[scope]; ok {
			want[scope] = true
		}
	}
	for scope, found := range want {
		if !found {
			t.Errorf("missing scope %s", scope)
		}
	}
}

func TestColumnLetter(t *testing.T) {
	cases := map[int]string{1: "A", 9: "I", 13: "M", 26: "Z", 27: "AA", 52: "AZ", 53: "BA"}
	for col, want := range cases {
		if got := columnLetter(col); got != want {
			t.Errorf("columnLetter(%d) = %q, want %q", col, got, want)
		}
	}
}

func TestQuoteTitle(t *testing.T) {
	if got := quoteTitle("Show Inventory"); got != "'Show Inventory'" {
		t.Errorf("unexpected quoted title %q", got)
	}
	if got := quoteTitle("Bob's Sheet"); got != "'Bob''s Sheet'" {
		t.Errorf("unexpected quoted title %q", got)
	}
}
