package tracking

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/liuran001/LinkCleanBot/bot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var legacyParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"fbclid", "gclid", "ref", "source", "tk",
	"aff_id", "aff_sub", "aff_click_id", "click_id",
	"campaign_id", "ad_id", "placement_id", "creative_id", "network_id",
	"utm_referrer", "referrer", "sref", "referer", "track_id", "tag",
	"subid", "subid2", "subid3", "rurl", "sid", "dclid", "twclid", "igshid", "igsh",
}

func loadConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func TestSetContainsIsExact(t *testing.T) {
	set := NewSet("utm_source", "", "fbclid")

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("utm_source"))
	assert.False(t, set.Contains("UTM_SOURCE"))
	assert.False(t, set.Contains("utm_"))
	assert.False(t, set.Contains("utm_source_x"))
	assert.False(t, set.Contains(""))
	assert.Equal(t, []string{"fbclid", "utm_source"}, set.Names())
}

func TestZeroSetIsEmpty(t *testing.T) {
	var set Set
	assert.Zero(t, set.Len())
	assert.False(t, set.Contains("fbclid"))
}

func TestDefaultMatchesLegacyList(t *testing.T) {
	set := Default()
	assert.Equal(t, len(legacyParams), set.Len())
	for _, name := range legacyParams {
		assert.True(t, set.Contains(name), name)
	}
}

func TestRegisterRejectsInvalidGroups(t *testing.T) {
	assert.Error(t, Register(Group{Params: []string{"x"}}))
	assert.Error(t, Register(Group{Name: "empty"}))
	assert.Error(t, Register(Group{Name: "utm", Params: []string{"x"}}))
	assert.Equal(t, []string{"affiliate", "campaign", "referrer", "social", "utm"}, Names())
}

func TestBuildNilConfig(t *testing.T) {
	set, err := Build(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Names(), set.Names())
}

func TestBuildHonoursRuleSections(t *testing.T) {
	cfg := loadConfig(t, `ExtraTrackingParams = mc_eid, msclkid
KeepTrackingParams = ref,source

[rules.utm]
enabled = false

[rules.unknown]
enabled = true
`)

	set, err := Build(cfg, nil)
	require.NoError(t, err)

	assert.False(t, set.Contains("utm_source"))
	assert.False(t, set.Contains("utm_referrer"))
	assert.True(t, set.Contains("fbclid"))
	assert.True(t, set.Contains("mc_eid"))
	assert.True(t, set.Contains("msclkid"))
	assert.False(t, set.Contains("ref"))
	assert.False(t, set.Contains("source"))
	assert.True(t, set.Contains("sid"))
}

func TestBuildEmptySet(t *testing.T) {
	content := ""
	for _, name := range Names() {
		content += "[rules." + name + "]\nenabled = false\n\n"
	}
	cfg := loadConfig(t, content)

	_, err := Build(cfg, nil)
	assert.ErrorIs(t, err, ErrEmptySet)
}

func TestBuildDoesNotShareStorage(t *testing.T) {
	cfg := loadConfig(t, "ExtraTrackingParams = custom\n")
	set, err := Build(cfg, nil)
	require.NoError(t, err)

	assert.True(t, set.Contains("custom"))
	assert.False(t, Default().Contains("custom"))
}
