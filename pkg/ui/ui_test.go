package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/reconcile"
	"github.com/arthur-debert/oukaro/pkg/types"
	"github.com/arthur-debert/oukaro/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleRows() []types.PackageStatus {
	return []types.PackageStatus{
		{Package: "com.a", Role: "system-app", State: types.StatusStateInjected, Target: "/system/app/com.a", Source: "/data/app/a"},
		{Package: "com.b", Role: "system-app", State: types.StatusStateNotInstalled, Target: "/system/app/com.b"},
		{Package: "com.c", Role: "priv-app", State: types.StatusStateOrphaned, Target: "/system/priv-app/com.c"},
	}
}

func TestRenderStatus_Text(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewRenderer(ui.FormatAuto, &buf)
	assert.Equal(t, ui.FormatText, r.Format())

	require.NoError(t, r.RenderStatus(sampleRows()))
	out := buf.String()
	assert.Contains(t, out, "system-app:")
	assert.Contains(t, out, "priv-app:")
	assert.Contains(t, out, "com.b")
	assert.Contains(t, out, "not-installed")
	assert.NotContains(t, out, "\x1b[", "plain text has no escape codes")
}

func TestRenderStatus_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ui.NewRenderer(ui.FormatText, &buf).RenderStatus(nil))
	assert.Equal(t, ui.MsgNoPackages+"\n", buf.String())
}

func TestRenderStatus_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ui.NewRenderer(ui.FormatJSON, &buf).RenderStatus(sampleRows()))

	var decoded struct {
		Packages []types.PackageStatus `json:"packages"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Packages, 3)
	assert.Equal(t, types.StatusStateOrphaned, decoded.Packages[2].State)
}

func TestRenderDesired_YAML(t *testing.T) {
	var buf bytes.Buffer
	state := types.DesiredState{
		SystemApps: types.NewPackageSet("com.b", "com.a"),
		PrivApps:   types.NewPackageSet(),
	}
	require.NoError(t, ui.NewRenderer(ui.FormatYAML, &buf).RenderDesired(state))

	var decoded map[string][]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"com.a", "com.b"}, decoded["system_app"])
	assert.Empty(t, decoded["priv_app"])
}

func TestRenderDesired_Text(t *testing.T) {
	var buf bytes.Buffer
	state := types.DesiredState{
		SystemApps: types.NewPackageSet("com.a"),
		PrivApps:   types.NewPackageSet(),
	}
	require.NoError(t, ui.NewRenderer(ui.FormatText, &buf).RenderDesired(state))
	assert.Equal(t, "system-app:\n  com.a\n\npriv-app:\n  (none)\n", buf.String())
}

func TestRenderPass(t *testing.T) {
	result := reconcile.PassResult{
		Results: []reconcile.PackageResult{
			{Package: "com.a", Role: types.RoleSystemApp, Op: reconcile.OpApply, Outcome: reconcile.OutcomeApplied, Source: "/data/app/a"},
			{Package: "com.b", Role: types.RolePrivApp, Op: reconcile.OpRetract, Outcome: reconcile.OutcomeFailed, Err: errors.New(errors.ErrTargetBusy, "busy")},
		},
		Snapshot: reconcile.NewSnapshot(),
		Duration: 1500 * time.Millisecond,
	}

	var text bytes.Buffer
	require.NoError(t, ui.NewRenderer(ui.FormatText, &text).RenderPass(result))
	assert.Contains(t, text.String(), "applied")
	assert.Contains(t, text.String(), "TARGET_BUSY")
	assert.Contains(t, text.String(), "1 applied, 0 retracted, 0 skipped, 1 failed")

	var js bytes.Buffer
	require.NoError(t, ui.NewRenderer(ui.FormatJSON, &js).RenderPass(result))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "1.5s", decoded["duration"])
	assert.Len(t, decoded["results"], 2)
}

func TestRenderPass_NothingToDo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ui.NewRenderer(ui.FormatText, &buf).RenderPass(reconcile.PassResult{}))
	assert.Equal(t, ui.MsgNothingToDo+"\n", buf.String())
}
