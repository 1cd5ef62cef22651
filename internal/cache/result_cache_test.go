package cache

import (
	"strings"
	"testing"
)

func TestKey(t *testing.T) {
	key := Key("v1", "hello")

	expected := "postlens:analysis:v1:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if key != expected {
		t.Errorf("expected %s, got %s", expected, key)
	}
}

func TestKey_DependsOnVersionAndText(t *testing.T) {
	base := Key("v1", "hello")

	if Key("v2", "hello") == base {
		t.Error("expected lexicon version to change the key")
	}
	if Key("v1", "hello ") == base {
		t.Error("expected text to change the key")
	}
	if Key("v1", "hello") != base {
		t.Error("expected key to be stable")
	}
	if !strings.HasPrefix(base, KEY_PREFIX+":") {
		t.Errorf("expected prefix %s, got %s", KEY_PREFIX, base)
	}
}
