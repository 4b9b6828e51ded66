package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyrakai/nyrakai/audit"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var testDict = filepath.Join("..", "..", "dictionary", "testdata", "**", "*.json")

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "nyrakai version 0.1.0 (build: dev)\n", out)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "ka'ta", "țrænañī")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ka'ta\tok\tka'.ta\tCV'.CV", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "țrænañī\tok\t"))

	out, err = execute(t, "validate", "kæ", "ktæ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 words invalid")
	assert.Contains(t, out, "ktæ\tbad-onset-cluster\t")
}

func TestValidateCommandNormalize(t *testing.T) {
	out, err := execute(t, "validate", "--normalize", "kai")
	require.NoError(t, err)
	assert.Equal(t, "kæ\tok\tkæ\tCV\n", out)
}

func TestSegmentCommand(t *testing.T) {
	out, err := execute(t, "segment", "ka'ta")
	require.NoError(t, err)
	assert.Equal(t, "ka'ta\tka'.ta\tCV'.CV\n", out)

	out, err = execute(t, "segment", "krk")
	require.Error(t, err)
	assert.Contains(t, out, "krk\t-\t")
}

func TestComposeCommand(t *testing.T) {
	out, err := execute(t, "compose", "țræn", "--with", "gender:feminine", "--with", "number:plural-feminine", "--validate")
	require.NoError(t, err)
	assert.Contains(t, out, "+a  țrænañī")
	assert.Contains(t, out, "+w  țrænañīwā")
	assert.True(t, strings.HasSuffix(out, "țrænañīwā\tnoun\tfixed-feminine\n"), out)

	out, err = execute(t, "compose", "n'æra", "--gender", "sacred", "-w", "gender:masculine,case:accusative")
	require.NoError(t, err)
	assert.Contains(t, out, "skip   gender:masculine(-æn)")
	assert.Contains(t, out, "n'ærawaš\tnoun\tsacred")
}

func TestComposeCommandErrors(t *testing.T) {
	_, err := execute(t, "compose", "kæ", "--with", "case:ergative")
	assert.Error(t, err)

	_, err = execute(t, "compose", "kæ", "--pos", "gerund")
	assert.Error(t, err)

	_, err = execute(t, "compose")
	assert.Error(t, err)
}

func TestComposeList(t *testing.T) {
	out, err := execute(t, "compose", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "gender:feminine(-ñī)\n")
	assert.Contains(t, out, "possession:my(fā-)\n")
}

func TestNormalizeCommand(t *testing.T) {
	out, err := execute(t, "normalize", "kai", "kæ")
	require.NoError(t, err)
	assert.Equal(t, "kai\tkæ\nkæ\tkæ\n", out)
}

func TestDomainCommand(t *testing.T) {
	out, err := execute(t, "domain", "kæ")
	require.NoError(t, err)
	assert.Equal(t, "\"kæ\" (k-) is action/body\n", out)

	out, err = execute(t, "domain", "kæ", "nature")
	require.NoError(t, err)
	assert.Contains(t, out, `"kæ" (k-) is action/body, not nature`)
	assert.Contains(t, out, "onsets for nature: ")

	out, err = execute(t, "domain", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "k-\taction/body\n")
}

func TestAuditCommand(t *testing.T) {
	out, err := execute(t, "audit", "--dict", testDict, "--workers", "2")
	require.Error(t, err, "test dictionary has invalid words")
	assert.Contains(t, out, "Words:   9\n")
	assert.Contains(t, out, "Invalid: 2\n")
	assert.Contains(t, out, "sten (Woman): onset st- is action, expected body")
}

func TestAuditCommandJSON(t *testing.T) {
	out, err := execute(t, "audit", "--dict", testDict, "--json")
	require.Error(t, err)

	var r audit.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 9, r.Total)
	assert.Equal(t, 7, r.Valid)
	assert.Len(t, r.Similar, 3)
}

func TestAuditCommandNoFiles(t *testing.T) {
	_, err := execute(t, "audit", "--dict", filepath.Join("testdata", "none", "*.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dictionary files match")
}
