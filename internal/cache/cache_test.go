package cache

import (
	"testing"

	"github.com/coocood/freecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewV1_DisabledWithoutSize(t *testing.T) {
	assert.Nil(t, NewV1("predictions", 0))
}

func TestV1_SetGetDelete(t *testing.T) {
	c := NewV1("predictions", 1024*1024)
	require.NotNil(t, c)
	defer c.Close()
	key := Key("models/model.json", []byte(`[{"bedrooms":3}]`))

	_, err := c.Get(key)
	assert.ErrorIs(t, err, freecache.ErrNotFound)

	require.NoError(t, c.SetEx(key, []byte(`{"predictions":[1]}`), 60))
	got, err := c.Get(key)
	require.NoError(t, err)
	assert.Equal(t, `{"predictions":[1]}`, string(got))

	assert.True(t, c.Delete(key))
	_, err = c.Get(key)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	body := []byte(`[{"bedrooms":3}]`)

	assert.Len(t, Key("a", body), 16)
	assert.Equal(t, Key("a", body), Key("a", body))
	assert.NotEqual(t, Key("a", body), Key("b", body))
	assert.NotEqual(t, Key("a", body), Key("a", []byte(`[{"bedrooms":4}]`)))
}
