package islands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/vango-dev/weave/internal/errors"
	"github.com/vango-dev/weave/pkg/vdom"
)

func text(s string) vdom.HandlerFunc {
	return func(context.Context, vdom.Args) (any, error) { return s, nil }
}

func TestRegisterAndResolve(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("joke", func(_ context.Context, args vdom.Args) (any, error) {
		return "joke #" + args.Get("n"), nil
	}, map[string]any{"n": 0}))

	spec, ok := reg.Get("joke")
	require.True(t, ok)
	assert.True(t, spec.HasState)
	assert.Equal(t, vdom.KindPartial, spec.Kind)

	d, err := reg.Resolve(context.Background(), "joke", vdom.Args{"n": {"7"}})
	require.NoError(t, err)
	v, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "joke #7", v)
}

func TestRegisterOverwrites(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("x", text("first")))
	require.NoError(t, reg.Register("x", text("second")))

	assert.Equal(t, 1, reg.Len())
	d, err := reg.Resolve(context.Background(), "x", nil)
	require.NoError(t, err)
	v, _ := d.Await(context.Background())
	assert.Equal(t, "second", v)
}

func TestResolveUnknown(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterSpec(&vdom.IslandSpec{Name: "static"}))

	for _, name := range []string{"missing", "static"} {
		t.Run(name, func(t *testing.T) {
			_, err := reg.Resolve(context.Background(), name, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))
			assert.Equal(t, werrors.CodeUnknownPartial, werrors.CodeOf(err))
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestResolveRPC(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterSpec(&vdom.IslandSpec{
		Name: "counter",
		Kind: vdom.KindIslandJS,
		RPC:  map[string]vdom.HandlerFunc{"inc": text("1")},
	}))

	d, err := reg.ResolveRPC(context.Background(), "counter", "inc", nil)
	require.NoError(t, err)
	v, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	_, err = reg.ResolveRPC(context.Background(), "counter", "dec", nil)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = reg.ResolveRPC(context.Background(), "nope", "inc", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveHandlerFailure(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("bad", func(context.Context, vdom.Args) (any, error) {
		panic("oops")
	}))

	d, err := reg.Resolve(context.Background(), "bad", nil)
	require.NoError(t, err)
	_, err = d.Await(context.Background())
	assert.EqualError(t, err, "oops")
}

func TestInvalidNames(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"", "a b", "a/b", "<x>", "é"} {
		err := reg.Register(name, text("x"))
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
	assert.Error(t, reg.RegisterSpec(nil))
	assert.Zero(t, reg.Len())

	for _, name := range []string{"a", "joke-of_the-day", "X9"} {
		assert.True(t, ValidName(name), name)
	}
}

func TestLifecycle(t *testing.T) {
	reg := NewRegistry()
	reg.Merge(map[string]*vdom.IslandSpec{
		"b":   {Name: "b"},
		"a":   {Name: "a"},
		"bad": {Name: "no good"},
	})
	assert.Equal(t, []string{"a", "b"}, reg.Names())

	assert.True(t, reg.Unregister("a"))
	assert.False(t, reg.Unregister("a"))
	assert.Equal(t, []string{"b"}, reg.Names())

	reg.Reset()
	assert.Empty(t, reg.Names())
	_, ok := reg.Get("b")
	assert.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = reg.Register(fmt.Sprintf("p%d", i%5), text("x"))
		}(i)
		go func(i int) {
			defer wg.Done()
			reg.Get(fmt.Sprintf("p%d", i%5))
			reg.Names()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, reg.Len())
}
