package branding

import (
	"strings"
	"testing"
)

func TestAppName(t *testing.T) {
	if AppName == "" {
		t.Fatal("expected AppName to be non-empty")
	}
	if AppName != "ADP Docs" {
		t.Fatalf("AppName = %q, want %q", AppName, "ADP Docs")
	}
}

func TestLogoPathIsSiteRelative(t *testing.T) {
	if !strings.HasPrefix(LogoPath, "/") {
		t.Fatalf("LogoPath = %q, want leading slash", LogoPath)
	}
	if LogoWidth <= 0 || LogoHeight <= 0 {
		t.Fatalf("logo size = %dx%d, want positive", LogoWidth, LogoHeight)
	}
}

func TestBrandMergeKeepsDefaults(t *testing.T) {
	merged := Default().Merge(Brand{Name: "Partner Docs", LogoWidth: 64})
	if merged.Name != "Partner Docs" {
		t.Fatalf("Name = %q, want override", merged.Name)
	}
	if merged.LogoWidth != 64 || merged.LogoHeight != LogoHeight {
		t.Fatalf("logo size = %dx%d", merged.LogoWidth, merged.LogoHeight)
	}
	if merged.LogoPath != LogoPath || merged.EditBranch != "main" {
		t.Fatalf("merged = %+v, want defaults kept", merged)
	}
}
