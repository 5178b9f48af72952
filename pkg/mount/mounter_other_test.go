//go:build !linux

package mount

import (
	"testing"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestUnsupportedMounter(t *testing.T) {
	m := NewMounter()
	assert.True(t, errors.IsErrorCode(m.Bind("/a", "/b"), errors.ErrNotImplemented))
	assert.True(t, errors.IsErrorCode(m.Unmount("/b", false), errors.ErrNotImplemented))
}
