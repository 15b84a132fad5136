package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	assert.NoError(t, SetLevel("warn"))
	assert.NoError(t, SetLevel("debug"))
	assert.Error(t, SetLevel("shouting"))
}
