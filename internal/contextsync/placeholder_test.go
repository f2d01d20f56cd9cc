package contextsync

import "testing"

func TestHasPlaceholders(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"instruction prompt", "**What:** [One sentence description]", true},
		{"example placeholder", "**Test:** `[e.g.: ./gradlew test]`", true},
		{"filled in", "**What:** A CLI that grows projects.", false},
		{"markdown link", "See [the docs](https://example.com).", false},
		{"reference link", "See [the docs][docs].\n\n[docs]: https://example.com", false},
		{"checklist", "- [ ] todo\n- [x] done", false},
		{"empty brackets", "array[]", false},
		{"multi-line brackets ignored", "[start\nend]", false},
		{"link then placeholder", "[a](b) and [Fill me in]", true},
		{"empty document", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPlaceholders(tt.content); got != tt.want {
				t.Errorf("HasPlaceholders(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}
