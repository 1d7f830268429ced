package scroll

import (
	"testing"

	"github.com/ghetzel/testify/require"
)

func TestParseAxis(t *testing.T) {
	assert := require.New(t)

	assert.Equal(Vertical, ParseAxis(`vertical`))
	assert.Equal(Vertical, ParseAxis(`Y`))
	assert.Equal(Horizontal, ParseAxis(`HORIZONTAL`))
	assert.Equal(Horizontal, ParseAxis(`x`))
	assert.Equal(Both, ParseAxis(`both`))
	assert.Equal(Both, ParseAxis(`diagonal`))
	assert.Equal(Both, ParseAxis(``))
	assert.Equal(Both, ParseAxis(nil))
	assert.Equal(Both, ParseAxis(42))
	assert.Equal(Horizontal, ParseAxis(Horizontal))
}

func TestAxisLabel(t *testing.T) {
	assert := require.New(t)

	assert.Equal(`vertical`, Vertical.Label())
	assert.Equal(`horizontal`, Horizontal.Label())
	assert.Equal(`both`, Both.Label())
	assert.Equal(``, Axis{}.Label())

	for _, token := range []string{`vertical`, `horizontal`, `both`} {
		assert.Equal(token, ParseAxis(token).Label())
	}
}
