package cmd

import (
	"bytes"
	"testing"

	"github.com/q-controller/facerecd/src/pkg/attributes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttributes(t *testing.T) {
	attrs, err := parseAttributes([]string{"result=match", "note=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, []attributes.Attribute{
		{Name: "result", Value: "match"},
		{Name: "note", Value: "a=b"},
		{Name: "empty", Value: ""},
	}, attrs)

	_, err = parseAttributes([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseAttributes([]string{"=value"})
	assert.Error(t, err)
}

func TestAttributesPutGet(t *testing.T) {
	t.Setenv("LOCAL_ROOT", t.TempDir())
	t.Setenv("DOMAIN_NAME", "results")

	rootCmd.SetArgs([]string{"attributes", "put", "alice", "result=match", "score=0.97"})
	require.NoError(t, rootCmd.Execute())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs([]string{"attributes", "get", "alice"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "result=match\nscore=0.97\n", out.String())

	rootCmd.SetArgs([]string{"attributes", "get", "bob"})
	assert.Error(t, rootCmd.Execute())
}
