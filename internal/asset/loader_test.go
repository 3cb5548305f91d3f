package asset

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenflow/internal/config"
	"screenflow/internal/view"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "UI/MainMenu/Settings", Key("MainMenu", "Settings"))
	assert.Equal(t, "UI/Toast", Key("", "Toast"))
}

func TestFSLoader_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"UI/Menu/Home.yaml": {Data: []byte("component: Home\ntitle: Hi\n")},
	}
	l := NewFSLoader(fsys)

	h, err := l.Load(context.Background(), "UI/Menu/Home")
	require.NoError(t, err)
	assert.Equal(t, "UI/Menu/Home", h.Key())
	assert.True(t, h.Valid())
	assert.Equal(t, "Hi", h.Template().Title)
	assert.EqualValues(t, 1, l.Loads())

	tpl, err := Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, "Home", tpl.Component)

	l.Release(h)
	l.Release(h)
	assert.False(t, h.Valid())
	assert.EqualValues(t, 1, l.Releases())
	_, err = Resolve(h)
	assert.ErrorIs(t, err, ErrReleased)
	_, err = Resolve(nil)
	assert.ErrorIs(t, err, ErrReleased)
}

func TestFSLoader_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"UI/Bad.yaml":    {Data: []byte("component: Bad\ncolour: red\n")},
		"UI/Empty.yaml":  {Data: []byte("title: nothing\n")},
		"UI/Broken.yaml": {Data: []byte("component: [\n")},
		"UI/Wobble.yaml": {Data: []byte("component: Wobble\nanimation: {kind: wobble}\n")},
	}
	l := NewFSLoader(fsys)
	ctx := context.Background()

	_, err := l.Load(ctx, "UI/Missing")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, key := range []string{"UI/Bad", "UI/Empty", "UI/Broken", "UI/Wobble"} {
		_, err := l.Load(ctx, key)
		assert.ErrorIs(t, err, ErrInvalid, key)
	}
	assert.Zero(t, l.Loads())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = l.Load(cancelled, "UI/Bad")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuiltin(t *testing.T) {
	keys, err := Walk(Builtin())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"UI/MainMenu/Help",
		"UI/MainMenu/Home",
		"UI/MainMenu/Profile",
		"UI/MainMenu/Settings",
		"UI/Toast",
	}, keys)

	l := NewFSLoader(Builtin())
	for _, key := range keys {
		h, err := l.Load(context.Background(), key)
		require.NoError(t, err, key)
		assert.Equal(t, key[len(key)-len(h.Template().Component):], h.Template().Component)
	}
}

func TestTemplate_Defaults(t *testing.T) {
	tpl, err := Decode([]byte("component: Home\n"))
	require.NoError(t, err)
	assert.True(t, tpl.IsInteractable())
	assert.Equal(t, view.FullRect(), tpl.ViewLayout())

	base := config.Default().Animation
	assert.Equal(t, base, tpl.AnimationConfig(base))
}

func TestTemplate_Overrides(t *testing.T) {
	tpl, err := Decode([]byte(`
component: Toast
interactable: false
layout:
  anchor_min: {x: 0.25, y: 0.5}
  offset_max: {x: 2, y: 1}
  scale: 2
animation:
  kind: slide
  direction: down
`))
	require.NoError(t, err)
	assert.False(t, tpl.IsInteractable())

	l := tpl.ViewLayout()
	assert.Equal(t, view.Point{X: 0.25, Y: 0.5}, l.AnchorMin)
	assert.Equal(t, view.Point{X: 1, Y: 1}, l.AnchorMax)
	assert.Equal(t, view.Point{X: 2, Y: 1}, l.OffsetMax)
	assert.Equal(t, 2.0, l.Scale)

	base := config.Default().Animation
	got := tpl.AnimationConfig(base)
	assert.Equal(t, "slide", got.Kind)
	assert.Equal(t, "down", got.Direction)
	assert.Equal(t, base.Timeout, got.Timeout)
}
