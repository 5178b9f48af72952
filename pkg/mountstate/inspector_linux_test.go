//go:build linux

package mountstate

import (
	"strings"
	"testing"

	"github.com/arthur-debert/oukaro/pkg/paths"
	"github.com/arthur-debert/oukaro/pkg/types"
	"github.com/moby/sys/mountinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mountinfoFixture = `1 0 253:0 / / rw,relatime shared:1 - ext4 /dev/root rw
25 1 0:31 / /system rw,relatime shared:2 - overlay overlay rw,lowerdir=/system,upperdir=/data/adb/oukaro/overlay/upper,workdir=/data/adb/oukaro/overlay/work
31 25 253:5 /app/~~abc==/app1-1 /system/app/app1 rw,relatime shared:3 - ext4 /dev/block/dm-5 rw
32 25 253:5 /app/com.c-1 /system/priv-app/com.c ro,relatime shared:3 - ext4 /dev/block/dm-5 rw
`

func readerSource(text string) Source {
	return func(filter mountinfo.FilterFunc) ([]*mountinfo.Info, error) {
		return mountinfo.GetMountsFromReader(strings.NewReader(text), filter)
	}
}

func TestInspector_MountinfoFixture(t *testing.T) {
	insp := NewWithSource(paths.Default(), readerSource(mountinfoFixture))

	mounted, err := insp.IsMounted("app1", types.RoleSystemApp)
	require.NoError(t, err)
	assert.True(t, mounted)

	mounted, err = insp.IsMounted("app2", types.RoleSystemApp)
	require.NoError(t, err)
	assert.False(t, mounted)

	priv, err := insp.ListInjected(types.RolePrivApp)
	require.NoError(t, err)
	require.Len(t, priv, 1)
	assert.Equal(t, "/app/com.c-1", priv[0].Root)
	assert.Equal(t, "ext4", priv[0].FSType)
}

func TestInspector_LiveTable(t *testing.T) {
	insp := New(paths.Default())

	mounted, err := insp.IsMountPoint("/")
	require.NoError(t, err)
	assert.True(t, mounted)
}
