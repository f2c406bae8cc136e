package display

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/concave-dev/tetanus/cmd/tetanus/config"
	"github.com/concave-dev/tetanus/internal/command"
)

// TestDisplayCatalogJSON tests the machine-readable catalog
func TestDisplayCatalogJSON(t *testing.T) {
	config.Global.Output = "json"
	defer func() { config.Global.Output = "table" }()

	var buf bytes.Buffer
	DisplayCatalog(&buf, command.NewRegistry(nil).Commands())

	var entries []CatalogEntry
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to decode catalog JSON: %v\n%s", err, buf.String())
	}
	if len(entries) != 6 {
		t.Fatalf("Expected 6 commands, got %d", len(entries))
	}
	if entries[0].Name != "activate_project" || entries[0].Usage != "activate_project <name>" {
		t.Errorf("Expected activate_project first, got %+v", entries[0])
	}
	for _, e := range entries {
		if e.UserParams == nil || e.ContextParams == nil || e.OptionalParams == nil {
			t.Errorf("Expected empty lists instead of null for %s", e.Name)
		}
	}
}

// TestDisplayCatalogTable tests the table catalog
func TestDisplayCatalogTable(t *testing.T) {
	config.Global.Output = "table"

	var buf bytes.Buffer
	DisplayCatalog(&buf, command.NewRegistry(nil).Commands())

	out := buf.String()
	for _, want := range []string{"USAGE", "create_project [name]", "optional", "list_projects"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in catalog table:\n%s", want, out)
		}
	}
}

// TestDisplayOutcome tests outcome printing
func TestDisplayOutcome(t *testing.T) {
	var buf bytes.Buffer
	DisplayOutcome(&buf, command.Outcome{})
	if buf.Len() != 0 {
		t.Errorf("Expected no output for an empty outcome, got %q", buf.String())
	}

	DisplayOutcome(&buf, command.Outcome{Text: "done", Err: errors.New("boom")})
	if buf.String() != "done\nerror: boom\n" {
		t.Errorf("Expected text then error, got %q", buf.String())
	}
}
