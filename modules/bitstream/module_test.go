package bitstream_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/specialistvlad/fabricshell/internal/design"
	"github.com/specialistvlad/fabricshell/internal/shell"
	"github.com/specialistvlad/fabricshell/modules/bitstream"
	"github.com/specialistvlad/fabricshell/modules/setup"
	"github.com/specialistvlad/fabricshell/modules/vpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fabricSession returns a session in which build_fabric has succeeded for a
// circuit of the given size.
func fabricSession(t *testing.T, blocks int) (*shell.Shell, *design.Context, string) {
	t.Helper()
	c := catalog.New()
	for _, m := range []catalog.Module{&vpr.Module{}, &setup.Module{}, &bitstream.Module{}} {
		require.NoError(t, m.Register(c))
	}
	require.NoError(t, c.Validate(context.Background()))

	dir := t.TempDir()
	arch := filepath.Join(dir, "arch.xml")
	act := filepath.Join(dir, "and2.act")
	require.NoError(t, os.WriteFile(arch, []byte("<openfpga_architecture/>"), 0o644))
	require.NoError(t, os.WriteFile(act, []byte("a 0.5 0.5\n"), 0o644))

	d := design.New()
	sh := shell.New(c, d)
	for _, line := range []string{
		"read_openfpga_arch -f " + arch,
		fmt.Sprintf("vpr -c and2 --blocks %d", blocks),
		"link_openfpga_arch --activity_file " + act,
		"build_fabric",
	} {
		_, err := sh.InvokeLine(context.Background(), line)
		require.NoError(t, err, line)
	}
	return sh, d, dir
}

func TestBitstreamFlow(t *testing.T) {
	sh, d, dir := fabricSession(t, 1)
	ctx := context.Background()
	out := filepath.Join(dir, "fabric_bitstream.bit")

	for _, line := range []string{
		"repack --verbose",
		"fpga_bitstream -f " + out,
		"build_fabric_bitstream",
	} {
		_, err := sh.InvokeLine(ctx, line)
		require.NoError(t, err, line)
	}

	// One block: one grid plus three routing modules.
	b, ok := d.Bitstream()
	require.True(t, ok)
	assert.Equal(t, design.Bitstream{Bits: 4 * bitstream.BitsPerModule, FabricOrdered: true}, b)
	assert.Equal(t, []string{out}, d.Outputs())

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "module_0 00000000\nmodule_1 00000001\nmodule_2 00000010\nmodule_3 00000011\n", string(content))
}

func TestBitstream_Ordering(t *testing.T) {
	sh, d, dir := fabricSession(t, 2)
	ctx := context.Background()

	_, err := sh.InvokeLine(ctx, "fpga_bitstream -f "+filepath.Join(dir, "out.bit"))
	var ordering *shell.OrderingError
	require.True(t, errors.As(err, &ordering), "got %v", err)
	assert.Equal(t, "fpga_bitstream", ordering.Command)
	assert.Equal(t, []string{"repack"}, ordering.Missing)

	// build_fabric and repack have run, fpga_bitstream has not.
	_, err = sh.InvokeLine(ctx, "repack")
	require.NoError(t, err)
	_, err = sh.InvokeLine(ctx, "build_fabric_bitstream")
	require.True(t, errors.As(err, &ordering), "got %v", err)
	assert.Equal(t, "build_fabric_bitstream", ordering.Command)
	assert.Equal(t, []string{"fpga_bitstream"}, ordering.Missing)

	_, ok := d.Bitstream()
	assert.False(t, ok)
	assert.Equal(t, 1, sh.History().Len(), "only repack is recorded")
}

func TestBitstream_RebuildFabricInvalidates(t *testing.T) {
	sh, d, dir := fabricSession(t, 2)
	ctx := context.Background()
	out := filepath.Join(dir, "out.bit")

	for _, line := range []string{"repack", "fpga_bitstream -f " + out, "build_fabric --duplicate_grid_pin"} {
		_, err := sh.InvokeLine(ctx, line)
		require.NoError(t, err, line)
	}
	_, ok := d.Bitstream()
	assert.False(t, ok)
	assert.False(t, d.Repacked())

	// fpga_bitstream is still satisfied in the session, so ordering passes,
	// but the stage itself finds nothing to work on.
	_, err := sh.InvokeLine(ctx, "build_fabric_bitstream")
	require.ErrorIs(t, err, shell.ErrExecution)
	assert.ErrorContains(t, err, "no bitstream has been generated")

	_, err = sh.InvokeLine(ctx, "fpga_bitstream -f "+out)
	assert.ErrorContains(t, err, "have not been repacked")
}

func TestBitstream_WriteFailure(t *testing.T) {
	sh, d, dir := fabricSession(t, 1)
	ctx := context.Background()

	_, err := sh.InvokeLine(ctx, "repack")
	require.NoError(t, err)
	_, err = sh.InvokeLine(ctx, "fpga_bitstream -f "+filepath.Join(dir, "missing", "out.bit"))
	require.ErrorIs(t, err, shell.ErrExecution)
	assert.ErrorContains(t, err, "failed to write bitstream")

	_, ok := d.Bitstream()
	assert.False(t, ok)
}
