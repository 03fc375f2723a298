package html

import (
	"io/fs"
	"strings"
	"testing"
)

func TestAssetsFSStylesheetUsesThemeVariables(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), StylesheetName)
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	for _, v := range []string{"var(--primary)", "var(--primary-hover)", "var(--accent)"} {
		if !strings.Contains(string(data), v) {
			t.Fatalf("stylesheet does not use %s", v)
		}
	}
}
