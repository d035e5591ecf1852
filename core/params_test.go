package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	p := Params{"name": "ada", "count": 3}

	name, err := Get[string](p, "name")
	require.NoError(t, err)
	assert.Equal(t, "ada", name)

	_, err = Get[string](p, "count")
	assert.ErrorIs(t, err, ErrInvalidParam)

	_, err = Get[string](p, "missing")
	assert.ErrorIs(t, err, ErrInvalidParam)
	assert.Contains(t, err.Error(), "missing")
}

func TestParams_Accessors(t *testing.T) {
	p := Params{"s": "", "f": 2.0, "i64": int64(4), "nil": nil}

	assert.Equal(t, "def", p.StringOr("s", "def"))
	assert.Equal(t, 2, p.IntOr("f", 0))
	assert.Equal(t, 4, p.IntOr("i64", 0))
	assert.Equal(t, 9, p.IntOr("absent", 9))
	assert.False(t, p.Has("nil"))
	assert.True(t, p.Has("f"))

	clone := p.Clone()
	clone["new"] = 1
	assert.False(t, p.Has("new"))
}
