package integration_tests

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/fabricshell/internal/history"
	"github.com/specialistvlad/fabricshell/internal/testutil"
)

// Test for: an HCL script drives the same flow as a line script
func TestHclFeatures_FabricFlow(t *testing.T) {
	// --- Arrange ---
	t.Setenv("FABRIC_CIRCUIT", "and2")
	files := map[string]string{
		"arch.xml": "<openfpga_architecture/>",
		"and2.act": "a 0.5 0.5\n",
		"flow.hcl": `
command "read_openfpga_arch" {
  file = "$DIR/arch.xml"
}

command "vpr" {
  circuit = env.FABRIC_CIRCUIT
  blocks  = 2
}

command "link_openfpga_arch" {
  activity_file = "$DIR/${env.FABRIC_CIRCUIT}.act"
  verbose       = true
}

command "build_fabric" {
  compress_routing   = true
  duplicate_grid_pin = false
}

command "repack" {}

command "fpga_bitstream" {
  file = "$DIR/fabric.bit"
}
`,
	}

	// --- Act ---
	result := testutil.RunScriptTest(t, files, "flow.hcl", false)

	// --- Assert ---
	if result.Err != nil {
		t.Fatalf("expected the HCL flow to succeed, got: %v", result.Err)
	}
	for _, name := range []string{"read_openfpga_arch", "vpr", "link_openfpga_arch", "build_fabric", "repack", "fpga_bitstream"} {
		testutil.AssertCommandRan(t, result, name, history.Succeeded)
	}

	// Two blocks with compressed routing give five modules, one line each.
	content, err := os.ReadFile(filepath.Join(result.Dir, "fabric.bit"))
	if err != nil {
		t.Fatalf("expected the bitstream to be written: %v", err)
	}
	if lines := strings.Count(string(content), "\n"); lines != 5 {
		t.Errorf("expected 5 bitstream lines, got %d", lines)
	}
}

// Test for: HCL attribute errors point at the source location
func TestHclFeatures_InvalidAttribute(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"flow.hcl": `
command "vpr" {
  circuit = "and2"
  blocks  = "many"
}
`,
	}

	// --- Act ---
	result := testutil.RunScriptTest(t, files, "flow.hcl", false)

	// --- Assert ---
	if result.Err == nil {
		t.Fatal("expected the script to fail")
	}
	if !strings.Contains(result.Err.Error(), "flow.hcl:") {
		t.Errorf("expected the error to name the HCL file, got: %v", result.Err)
	}
	if n := len(result.App.History().Entries()); n != 0 {
		t.Errorf("expected nothing to run, got %d entries", n)
	}
}
