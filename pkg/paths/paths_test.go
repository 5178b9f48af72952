package paths

import (
	"testing"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	l, err := New("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemRoot, l.SystemRoot())
	assert.Equal(t, DefaultModuleDir, l.ModuleDir())
	assert.Equal(t, Default(), l)
}

func TestNew_RejectsRelative(t *testing.T) {
	_, err := New("system", "/data/adb/oukaro")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = New("/system", "oukaro")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestLayout_Locations(t *testing.T) {
	l, err := New("/system/", "/data/adb/oukaro")
	require.NoError(t, err)

	assert.Equal(t, "/system/app", l.RoleDir(types.RoleSystemApp))
	assert.Equal(t, "/system/priv-app", l.RoleDir(types.RolePrivApp))
	assert.Equal(t, "/system/app/com.a", l.Target("com.a", types.RoleSystemApp))
	assert.Equal(t, "/system/priv-app/com.a", l.Target("com.a", types.RolePrivApp))
	assert.Equal(t, "/data/adb/oukaro/staging/priv-app/com.c", l.StagingDir("com.c", types.RolePrivApp))
	assert.Equal(t, "/data/adb/oukaro/overlay/upper", l.OverlayUpper())
	assert.Equal(t, "/data/adb/oukaro/overlay/work", l.OverlayWork())
	assert.Equal(t, "/data/adb/oukaro/config.toml", l.DefaultConfigPath())
}

func TestLayout_PackageFromTarget(t *testing.T) {
	l := Default()

	name, ok := l.PackageFromTarget("/system/app/com.a", types.RoleSystemApp)
	assert.True(t, ok)
	assert.Equal(t, types.PackageName("com.a"), name)

	_, ok = l.PackageFromTarget("/system/app/com.a", types.RolePrivApp)
	assert.False(t, ok, "role directories must not be crossed")

	_, ok = l.PackageFromTarget("/system/app/com.a/lib", types.RoleSystemApp)
	assert.False(t, ok)

	_, ok = l.PackageFromTarget("/system/app", types.RoleSystemApp)
	assert.False(t, ok)
}
