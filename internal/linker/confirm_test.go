package linker

import (
	"path/filepath"
	"strings"
	"testing"
)

func confirmWith(t *testing.T, input string, quiet bool) (Decision, string) {
	t.Helper()
	var out strings.Builder
	c := NewConsoleConfirmer(strings.NewReader(input), &out, quiet)
	pending := []Assignment{{
		MaterialName: "Wood",
		Candidate:    Candidate{Path: filepath.Join("scenes", "color_height.png"), Rel: "color_height.png"},
		Image:        &ImageRef{Path: filepath.Join("scenes", "color.png"), Rel: "color.png"},
	}}
	d, err := c.Confirm("scene.gltf", pending)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	return d, out.String()
}

func TestConsoleConfirmerAnswers(t *testing.T) {
	cases := []struct {
		input string
		want  Decision
	}{
		{"yes\n", DecisionYes},
		{"Y\n", DecisionYes},
		{"no\n", DecisionNo},
		{"\n", DecisionNo},
		{"", DecisionNo}, // EOF defaults to No
		{"abort\n", DecisionAbort},
		{"A\n", DecisionAbort},
		{"sure\n", DecisionNo},
	}
	for _, c := range cases {
		if got, _ := confirmWith(t, c.input, false); got != c.want {
			t.Errorf("input %q: expected %v, got %v", c.input, c.want, got)
		}
	}
}

func TestConsoleConfirmerListing(t *testing.T) {
	_, out := confirmWith(t, "no\n", false)
	if !strings.Contains(out, "Found the following heightmaps:") {
		t.Error("pending listing missing")
	}
	if !strings.Contains(out, `"Wood"`) || !strings.Contains(out, "color_height.png") {
		t.Errorf("listing lacks assignment detail: %s", out)
	}
	if !strings.Contains(out, "Write to scene.gltf? [Yes/No/Abort] (default: No):") {
		t.Errorf("prompt missing: %s", out)
	}
}

func TestConsoleConfirmerQuiet(t *testing.T) {
	_, out := confirmWith(t, "no\n", true)
	if strings.Contains(out, "Found the following heightmaps:") {
		t.Error("quiet confirmer still printed the listing")
	}
	if !strings.Contains(out, "Write to scene.gltf?") {
		t.Errorf("quiet confirmer dropped the prompt: %s", out)
	}
}
