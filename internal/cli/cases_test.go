package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortID(t *testing.T) {
	assert.Equal(t, "3fa85f64", shortID("3fa85f64-5717-4562-b3fc-2c963f66afa6"))
	assert.Equal(t, "case-1", shortID("case-1"))
	assert.Equal(t, "", shortID(""))
}
