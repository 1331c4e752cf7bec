package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func loadTree(t *testing.T, name string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		t.Fatalf("decode fixture %s: %v", name, err)
	}
	return tree
}

func parseFixture(t *testing.T, name string) *Container {
	t.Helper()
	container, err := Parse(name, loadTree(t, name), "")
	if err != nil {
		t.Fatalf("Parse(%s) returned error: %v", name, err)
	}
	return container
}

func streamEntry(t *testing.T, name string, index int) map[string]any {
	t.Helper()
	tree := loadTree(t, name)
	streams, _ := tree["streams"].([]any)
	if index >= len(streams) {
		t.Fatalf("fixture %s has no stream %d", name, index)
	}
	entry, ok := streams[index].(map[string]any)
	if !ok {
		t.Fatalf("fixture %s stream %d is not an object", name, index)
	}
	return entry
}
