package wm

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXML_RoundTrip(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.systemDir, "a.desktop", desktop("Alpha", "alpha"))
	writeFile(t, f.userDir, "b.desktop",
		"[Desktop Entry]\nName=Beta\nExec=beta\n\n[Window Manager]\nConfigExec=beta-cfg\nSessionManaged=true\n")

	src := f.registry()
	require.NoError(t, src.Initialize())
	beta, err := src.Find("Beta")
	require.NoError(t, err)
	require.NoError(t, src.SetCurrent(beta))

	var buf bytes.Buffer
	require.NoError(t, src.WriteXML(&buf))
	out := buf.String()
	assert.Contains(t, out, "<wm-prefs>")
	assert.Contains(t, out, `desktop-entry="`+filepath.Join(f.userDir, "b.desktop")+`"`)
	assert.Contains(t, out, "<config-exec>beta-cfg</config-exec>")
	assert.Contains(t, out, "<is-current>true</is-current>")

	dst := NewRegistry(nil, WithSystemDir(""), WithUserDir(""), WithDefaultFile(""), WithLookPath(lookPathAll))
	require.NoError(t, dst.Initialize())
	added, err := dst.ReadXML(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	assert.Equal(t, []string{"Alpha", "Beta"}, names(dst.List()))
	require.NotNil(t, dst.Current())
	assert.Equal(t, "Beta", dst.Current().Name)
	assert.True(t, dst.Current().SessionManaged)
	assert.True(t, dst.Current().IsUser)
	assert.Equal(t, "beta-cfg", dst.Current().ConfigExec)
}

func TestReadXML_Filters(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.desktop", desktop("Good", "good"))
	absent := writeFile(t, dir, "absent.desktop", "[Desktop Entry]\nName=Absent\nExec=x\nTryExec=missing-x\n")

	doc := `<?xml version="1.0"?>
<wm-prefs>
  <window-manager desktop-entry="` + good + `">
    <session-managed>TRUE</session-managed>
    <is-user>False</is-user>
    <is-current>true</is-current>
  </window-manager>
  <window-manager desktop-entry="` + good + `">
    <is-user>false</is-user>
  </window-manager>
  <window-manager desktop-entry="` + absent + `">
    <is-user>false</is-user>
  </window-manager>
  <window-manager desktop-entry="` + good + `">
    <config-exec>   </config-exec>
  </window-manager>
  <window-manager desktop-entry="` + filepath.Join(dir, "nope.desktop") + `"/>
</wm-prefs>`

	r := NewRegistry(nil, WithSystemDir(""), WithUserDir(""), WithDefaultFile(""), WithLookPath(lookPathAll))
	require.NoError(t, r.Initialize())

	added, err := r.ReadXML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, r.List(), 1)
	assert.True(t, r.List()[0].SessionManaged, "booleans are case-insensitive")
	assert.Same(t, r.List()[0], r.Current())
}

func TestReadXML_WrongRoot(t *testing.T) {
	r := NewRegistry(nil, WithSystemDir(""), WithUserDir(""), WithDefaultFile(""))
	_, err := r.ReadXML(strings.NewReader("<prefs/>"))
	assert.Error(t, err)
}
