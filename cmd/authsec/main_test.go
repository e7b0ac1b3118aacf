package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasbyte1/go-authsec/hashing"
)

func init() {
	color.NoColor = true
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func Test_hash_ThenCheck(t *testing.T) {
	code, out, _ := runCLI(t, "s3cret\n", "hash", "-method", "pbkdf2:sha256:1000", "-salt-length", "12")
	require.Equal(t, exitOK, code)
	encoded := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(encoded, "pbkdf2:sha256:1000$"))
	assert.True(t, hashing.CheckPasswordHash(encoded, "s3cret"))

	code, out, errOut := runCLI(t, "s3cret\n", "check", encoded)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "match")
	assert.Contains(t, errOut, "current default is hash:32768:8:1:64")

	code, out, _ = runCLI(t, "wrong\n", "check", encoded)
	assert.Equal(t, exitRejected, code)
	assert.Contains(t, out, "mismatch")
}

func Test_hash_InvalidConfig(t *testing.T) {
	code, _, errOut := runCLI(t, "pw\n", "hash", "-method", "argon2id")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "unknown hash method")

	code, _, _ = runCLI(t, "pw\n", "hash", "-method", "pbkdf2", "-salt-length", "0")
	assert.Equal(t, exitUsage, code)
}

func Test_hash_NoPassword(t *testing.T) {
	code, _, errOut := runCLI(t, "", "hash", "-method", "pbkdf2:sha1:1")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "no password")
}

func Test_check_Malformed(t *testing.T) {
	code, out, _ := runCLI(t, "pw\n", "check", "a$b")
	assert.Equal(t, exitRejected, code)
	assert.Contains(t, out, "mismatch")

	code, _, _ = runCLI(t, "pw\n", "check")
	assert.Equal(t, exitUsage, code)
}

func Test_info(t *testing.T) {
	code, out, _ := runCLI(t, "", "info", "hash:1024:8:2:32$abcDEF123$00ff")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "method: hash:1024:8:2:32")
	assert.Contains(t, out, "salt: abcDEF123")
	assert.Contains(t, out, "n: 1024")
	assert.Contains(t, out, "key_len: 32")
	// Params are printed in sorted order.
	assert.Less(t, strings.Index(out, "key_len:"), strings.Index(out, "n:"))

	code, _, errOut := runCLI(t, "", "info", "garbage")
	assert.Equal(t, exitRejected, code)
	assert.Contains(t, errOut, "malformed")
}

func Test_join(t *testing.T) {
	code, out, _ := runCLI(t, "", "join", "/var/data", "a", "b.txt")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "/var/data/a/b.txt\n", out)

	code, out, errOut := runCLI(t, "", "-v", "join", "/var/data", "../etc/passwd")
	assert.Equal(t, exitRejected, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "path escapes /var/data")

	code, _, _ = runCLI(t, "", "join")
	assert.Equal(t, exitUsage, code)
}

func Test_run_Usage(t *testing.T) {
	code, _, errOut := runCLI(t, "")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "authsec [-v] hash")
	assert.Contains(t, errOut, "sha256")

	code, _, errOut = runCLI(t, "", "frobnicate")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, `unknown command "frobnicate"`)

	code, _, _ = runCLI(t, "", "-nope")
	assert.Equal(t, exitUsage, code)
}

func Test_readPassword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pw\n", "pw"},
		{"pw\r\n", "pw"},
		{"pw", "pw"},
		{"first\nsecond\n", "first"},
		{"\n", ""},
		{"  spaced  \n", "  spaced  "},
	}
	for _, tt := range tests {
		got, err := readPassword(strings.NewReader(tt.in))
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := readPassword(strings.NewReader(""))
	assert.Error(t, err)
}
