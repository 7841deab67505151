package record

import "testing"

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"EF Core":             "ef_core",
		"dependency-injection": "dependency_injection",
		"AI/ML":               "ai_ml",
		"TCP/IP":              "tcp_ip",
		"client\\server":      "client_server",
		"  Performance  ":     "performance",
		"already_snake":       "already_snake",
		"":                    "",
	}

	for in, want := range cases {
		if got := NormalizeKey(in); got != want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeCategory_Default(t *testing.T) {
	if got := NormalizeCategory("   "); got != DefaultCategory {
		t.Fatalf("expected default category, got %q", got)
	}
	if got := NormalizeCategory("Data Access"); got != "data_access" {
		t.Fatalf("expected normalized category, got %q", got)
	}
}

func TestNormalizeTags_DeduplicatesPreservingOrder(t *testing.T) {
	got := NormalizeTags([]string{"Caching", "EF Core", "caching", "", "ef-core"})
	if len(got) != 2 || got[0] != "caching" || got[1] != "ef_core" {
		t.Fatalf("unexpected tags: %#v", got)
	}
}
