package commands

import (
	"strings"
	"testing"
)

func TestConfig_InitListGetSet(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "Configuration file created at:") {
		t.Errorf("Unexpected init output %q", out)
	}

	out, err = runCLI(t, "config", "list")
	if err != nil {
		t.Fatalf("config list failed: %v", err)
	}
	if !strings.Contains(out, "Default Profile: aws") || !strings.Contains(out, "  local:") {
		t.Errorf("Unexpected list output %q", out)
	}
	if strings.Contains(out, "access_key_id: local\n") {
		t.Error("Expected access key to be masked")
	}

	if _, err := runCLI(t, "config", "set", "local.endpoint_url", "http://127.0.0.1:9999"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	out, err = runCLI(t, "config", "get", "local.endpoint_url")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if strings.TrimSpace(out) != "http://127.0.0.1:9999" {
		t.Errorf("Expected updated endpoint, got %q", out)
	}

	if _, err := runCLI(t, "config", "set", "default.profile", "local"); err != nil {
		t.Fatalf("config set default.profile failed: %v", err)
	}
	out, _ = runCLI(t, "config", "list")
	if !strings.Contains(out, "Default Profile: local") {
		t.Errorf("Expected default profile 'local', got %q", out)
	}
}

func TestConfig_Errors(t *testing.T) {
	setupCLI(t)

	if _, err := runCLI(t, "config", "get", "nodot"); err == nil {
		t.Error("Expected error for malformed key")
	}
	if _, err := runCLI(t, "config", "get", "missing.region"); err == nil {
		t.Error("Expected error for missing profile")
	}
	if _, err := runCLI(t, "config", "set", "local.api_key", "x"); err == nil {
		t.Error("Expected error for unknown key")
	}
	if _, err := runCLI(t, "config", "set", "default.profile", "nope"); err == nil {
		t.Error("Expected error for unknown default profile")
	}
}
