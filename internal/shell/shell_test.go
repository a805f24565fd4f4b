package shell

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/specialistvlad/fabricshell/internal/design"
	"github.com/specialistvlad/fabricshell/internal/history"
	"github.com/specialistvlad/fabricshell/internal/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter records how often each stage ran.
type counter struct {
	calls map[string]int
}

func (c *counter) mutating(name string, fail *atomic.Bool) catalog.MutatingFunc {
	return func(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
		c.calls[name]++
		if fail != nil && fail.Load() {
			return errors.New(name + " exploded")
		}
		d.AddOutput(name)
		return nil
	}
}

func addCommand(t *testing.T, cat *catalog.Catalog, name string, fn catalog.MutatingFunc, deps ...string) catalog.CommandID {
	t.Helper()
	id, err := cat.AddCommand(name, "")
	require.NoError(t, err)
	require.NoError(t, cat.SetMutatingFunc(id, fn))
	var prereqs []catalog.CommandID
	for _, d := range deps {
		p, err := cat.Command(d)
		require.NoError(t, err)
		prereqs = append(prereqs, p)
	}
	require.NoError(t, cat.SetDependencies(id, prereqs))
	return id
}

func fixedClock() func() time.Time {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func TestInvoke_NotFound(t *testing.T) {
	sh := New(catalog.New(), design.New())
	_, err := sh.Invoke(context.Background(), "vpr", nil)
	require.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Equal(t, 0, sh.History().Len())
}

func TestInvoke_OrderingThenSuccess(t *testing.T) {
	ctx := context.Background()
	cat := catalog.New()
	c := &counter{calls: map[string]int{}}
	addCommand(t, cat, "A", c.mutating("A", nil))
	addCommand(t, cat, "B", c.mutating("B", nil), "A")

	d := design.New()
	sh := New(cat, d, WithClock(fixedClock()))

	_, err := sh.Invoke(ctx, "B", nil)
	require.ErrorIs(t, err, ErrOrdering)
	var ordErr *OrderingError
	require.ErrorAs(t, err, &ordErr)
	assert.Equal(t, []string{"A"}, ordErr.Missing)
	assert.Equal(t, 0, c.calls["B"], "the stage must not run when prerequisites are missing")
	assert.Equal(t, 0, sh.History().Len())
	assert.Empty(t, d.Outputs())

	res, err := sh.Invoke(ctx, "A", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Entry.Seq)

	res, err = sh.Invoke(ctx, "B", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Entry.Seq)
	assert.Equal(t, []string{"A", "B"}, d.Outputs())
}

func TestInvoke_OrderingNamesEveryMissingPrerequisite(t *testing.T) {
	cat := catalog.New()
	c := &counter{calls: map[string]int{}}
	addCommand(t, cat, "read_openfpga_arch", c.mutating("read_openfpga_arch", nil))
	addCommand(t, cat, "vpr", c.mutating("vpr", nil))
	addCommand(t, cat, "link_openfpga_arch", c.mutating("link_openfpga_arch", nil), "read_openfpga_arch", "vpr")

	sh := New(cat, design.New())
	_, err := sh.Invoke(context.Background(), "link_openfpga_arch", nil)

	var ordErr *OrderingError
	require.ErrorAs(t, err, &ordErr)
	assert.Equal(t, []string{"read_openfpga_arch", "vpr"}, ordErr.Missing)
	assert.Contains(t, err.Error(), "'read_openfpga_arch', 'vpr'")
}

func TestInvoke_BindFailureDoesNotRunStage(t *testing.T) {
	ctx := context.Background()
	cat := catalog.New()
	c := &counter{calls: map[string]int{}}
	id := addCommand(t, cat, "fpga_bitstream", c.mutating("fpga_bitstream", nil))
	_, err := cat.DefineOption(id, "file", option.String, "")
	require.NoError(t, err)

	sh := New(cat, design.New())

	_, err = sh.Invoke(ctx, "fpga_bitstream", nil)
	require.ErrorIs(t, err, binder.ErrMissingRequiredOption)

	_, err = sh.Invoke(ctx, "fpga_bitstream", []binder.Token{binder.Value("file", "a"), binder.Flag("bogus")})
	require.ErrorIs(t, err, binder.ErrUnknownOption)

	assert.Equal(t, 0, c.calls["fpga_bitstream"])
	assert.Equal(t, 0, sh.History().Len())
	assert.False(t, sh.History().Satisfied(int(id)))
}

func TestInvoke_ExecutionErrorIsRecorded(t *testing.T) {
	ctx := context.Background()
	cat := catalog.New()
	c := &counter{calls: map[string]int{}}
	var fail atomic.Bool
	fail.Store(true)
	id := addCommand(t, cat, "repack", c.mutating("repack", &fail))

	sh := New(cat, design.New())
	res, err := sh.Invoke(ctx, "repack", nil)

	require.ErrorIs(t, err, ErrExecution)
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.EqualError(t, execErr.Err, "repack exploded")
	require.NotNil(t, res)
	assert.Equal(t, history.Failed, res.Entry.Outcome)
	assert.Equal(t, "repack exploded", res.Entry.Error)
	assert.False(t, sh.History().Satisfied(int(id)))

	// The session continues after a failed stage.
	fail.Store(false)
	_, err = sh.Invoke(ctx, "repack", nil)
	require.NoError(t, err)
	assert.True(t, sh.History().Satisfied(int(id)))
}

func TestInvoke_CollaboratorErrorIsReachable(t *testing.T) {
	sentinel := errors.New("architecture file is corrupt")
	cat := catalog.New()
	id, _ := cat.AddCommand("read_openfpga_arch", "")
	require.NoError(t, cat.SetMutatingFunc(id, func(context.Context, *design.Context, *binder.Invocation) error {
		return sentinel
	}))

	_, err := New(cat, design.New()).Invoke(context.Background(), "read_openfpga_arch", nil)
	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, ErrExecution)
}

func TestInvoke_FailedRerunKeepsSatisfaction(t *testing.T) {
	ctx := context.Background()
	cat := catalog.New()
	c := &counter{calls: map[string]int{}}
	var fail atomic.Bool
	a := addCommand(t, cat, "A", c.mutating("A", &fail))
	addCommand(t, cat, "B", c.mutating("B", nil), "A")

	sh := New(cat, design.New())
	_, err := sh.Invoke(ctx, "A", nil)
	require.NoError(t, err)

	fail.Store(true)
	_, err = sh.Invoke(ctx, "A", nil)
	require.ErrorIs(t, err, ErrExecution)

	assert.True(t, sh.History().Satisfied(int(a)))
	_, err = sh.Invoke(ctx, "B", nil)
	require.NoError(t, err, "dependents stay invocable after a failed re-run")

	entries := sh.History().Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, history.Succeeded, entries[0].Outcome)
	assert.Equal(t, history.Failed, entries[1].Outcome)
	assert.Equal(t, "B", entries[2].Command)
}

func TestInvoke_ReadonlyStageSeesContextWithoutChangingIt(t *testing.T) {
	ctx := context.Background()
	cat := catalog.New()
	write := addCommand(t, cat, "write", func(_ context.Context, d *design.Context, _ *binder.Invocation) error {
		d.SetFabric(design.Fabric{Modules: 12})
		return nil
	})
	report, _ := cat.AddCommand("report", "")
	require.NoError(t, cat.SetDependencies(report, []catalog.CommandID{write}))

	var seen int
	require.NoError(t, cat.SetReadonlyFunc(report, func(_ context.Context, r design.Reader, _ *binder.Invocation) error {
		f, ok := r.Fabric()
		if !ok {
			return errors.New("no fabric")
		}
		seen = f.Modules
		f.Modules = 99 // a copy, must not leak back
		return nil
	}))

	d := design.New()
	sh := New(cat, d)
	_, err := sh.Invoke(ctx, "write", nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = sh.Invoke(ctx, "report", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 12, seen)
	f, _ := d.Fabric()
	assert.Equal(t, 12, f.Modules)
	assert.Equal(t, 4, sh.History().Len())
}

func TestInvoke_UnboundStage(t *testing.T) {
	cat := catalog.New()
	_, _ = cat.AddCommand("vpr", "")
	_, err := New(cat, design.New()).Invoke(context.Background(), "vpr", nil)
	assert.ErrorIs(t, err, catalog.ErrNoStage)
}

func TestInvoke_PanickingStageIsAFailure(t *testing.T) {
	cat := catalog.New()
	id, _ := cat.AddCommand("build_fabric", "")
	require.NoError(t, cat.SetMutatingFunc(id, func(context.Context, *design.Context, *binder.Invocation) error {
		panic("nil fabric")
	}))

	sh := New(cat, design.New())
	res, err := sh.Invoke(context.Background(), "build_fabric", nil)
	require.ErrorIs(t, err, ErrExecution)
	assert.Contains(t, err.Error(), "stage panicked: nil fabric")
	assert.Equal(t, history.Failed, res.Entry.Outcome)

	// The in-flight marker is released after a panic.
	_, err = sh.Invoke(context.Background(), "build_fabric", nil)
	assert.NotErrorIs(t, err, ErrBusy)
}

func TestInvoke_ReentrantCallIsBusy(t *testing.T) {
	cat := catalog.New()
	var sh *Shell
	var inner error
	id, _ := cat.AddCommand("outer", "")
	require.NoError(t, cat.SetMutatingFunc(id, func(ctx context.Context, _ *design.Context, _ *binder.Invocation) error {
		_, inner = sh.Invoke(ctx, "outer", nil)
		return nil
	}))

	sh = New(cat, design.New())
	_, err := sh.Invoke(context.Background(), "outer", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrBusy)
	assert.Equal(t, 1, sh.History().Len())
}

func TestInvoke_InvocationCarriesCommand(t *testing.T) {
	cat := catalog.New()
	var got *binder.Invocation
	id, _ := cat.AddCommand("pb_pin_fixup", "")
	_, err := cat.DefineOption(id, "verbose", option.Flag, "")
	require.NoError(t, err)
	require.NoError(t, cat.SetMutatingFunc(id, func(_ context.Context, _ *design.Context, inv *binder.Invocation) error {
		got = inv
		return nil
	}))

	res, err := New(cat, design.New()).InvokeLine(context.Background(), "pb_pin_fixup --verbose")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Same(t, got, res.Invocation)
	assert.Equal(t, "pb_pin_fixup", got.Command)
	assert.Equal(t, int(id), got.CommandID)
	assert.True(t, got.Bool("verbose"))
}

func TestInvokeLine(t *testing.T) {
	ctx := context.Background()
	cat := catalog.New()
	var file string
	id, _ := cat.AddCommand("read_openfpga_arch", "")
	opt, _ := cat.DefineOption(id, "file", option.String, "")
	schema, _ := cat.Schema(id)
	require.NoError(t, schema.SetShortAlias(opt, "f"))
	require.NoError(t, cat.SetMutatingFunc(id, func(_ context.Context, _ *design.Context, inv *binder.Invocation) error {
		file = inv.String("file")
		return nil
	}))
	sh := New(cat, design.New())

	res, err := sh.InvokeLine(ctx, "   ")
	assert.NoError(t, err)
	assert.Nil(t, res)

	res, err = sh.InvokeLine(ctx, "# just a comment")
	assert.NoError(t, err)
	assert.Nil(t, res)

	_, err = sh.InvokeLine(ctx, `read_openfpga_arch -f "my arch.xml" # trailing comment`)
	require.NoError(t, err)
	assert.Equal(t, "my arch.xml", file)

	_, err = sh.InvokeLine(ctx, `read_openfpga_arch --file "#arch.xml"`)
	require.NoError(t, err)
	assert.Equal(t, "#arch.xml", file)

	_, err = sh.InvokeLine(ctx, `read_openfpga_arch -f "unterminated`)
	assert.Error(t, err)

	_, err = sh.InvokeLine(ctx, `read_openfpga_arch stray`)
	assert.ErrorContains(t, err, "unexpected argument")
}

func TestInvokeArgs(t *testing.T) {
	ctx := context.Background()
	cat := catalog.New()
	var file string
	id, _ := cat.AddCommand("write_openfpga_arch", "")
	_, _ = cat.DefineOption(id, "file", option.String, "")
	require.NoError(t, cat.SetReadonlyFunc(id, func(_ context.Context, _ design.Reader, inv *binder.Invocation) error {
		file = inv.String("file")
		return nil
	}))
	sh := New(cat, design.New())

	res, err := sh.InvokeArgs(ctx, "write_openfpga_arch", []string{"--file", "arch out.xml"})
	require.NoError(t, err)
	assert.Equal(t, "arch out.xml", file)
	assert.Equal(t, 1, res.Entry.Seq)

	_, err = sh.InvokeArgs(ctx, "write_openfpga_arch", []string{"--file=x.xml", "extra"})
	assert.ErrorContains(t, err, "command 'write_openfpga_arch'")
	assert.Equal(t, 1, sh.History().Len())
}

func TestSessionID(t *testing.T) {
	a := New(catalog.New(), design.New())
	b := New(catalog.New(), design.New())
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())

	c := New(catalog.New(), design.New(), WithSessionID("fixed"))
	assert.Equal(t, "fixed", c.SessionID())
}
