package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func pcapFile() []byte {
	le := binary.LittleEndian
	b := []byte{0xd4, 0xc3, 0xb2, 0xa1}
	b = le.AppendUint16(b, 2)
	b = le.AppendUint16(b, 4)
	b = le.AppendUint32(b, 0)
	b = le.AppendUint32(b, 0)
	b = le.AppendUint32(b, 65535)
	b = le.AppendUint32(b, 1)

	b = le.AppendUint32(b, 1700000000)
	b = le.AppendUint32(b, 0)
	b = le.AppendUint32(b, 2)
	b = le.AppendUint32(b, 2)
	return append(b, 0xab, 0xcd)
}

const recLayout = `
struct Rec {
	kind u8
	enum 1 ONE
	n    u8
	body bytes n
}
`

type env struct {
	dir    string
	config string
}

func newEnv(t *testing.T, config string) env {
	t.Helper()

	e := env{dir: t.TempDir()}
	e.config = e.write(t, "config.yaml", []byte(config))
	e.write(t, "cap.pcap", pcapFile())
	e.write(t, "rec.bin", []byte{0xff, 0x01, 0x02, 0x41, 0x42})
	e.write(t, "rec.layout", []byte(recLayout))
	return e
}

func (e env) write(t *testing.T, name string, b []byte) string {
	t.Helper()

	p := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(p, b, 0600))
	return p
}

func (e env) path(name string) string {
	return filepath.Join(e.dir, name)
}

func (e env) run(args ...string) (string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	argv := append([]string{"bindecl", "--config", e.config}, args...)
	err := newApp(out, errOut).Run(context.Background(), argv)
	return out.String(), err
}

func TestTypes(t *testing.T) {
	t.Parallel()

	out, err := newEnv(t, "").run("types")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "elf")
	assert.Contains(t, out, "pcap,cap")
}

func TestDetect(t *testing.T) {
	t.Parallel()

	e := newEnv(t, "")
	out, err := e.run("detect", e.path("cap.pcap"), e.path("rec.bin"))
	require.NoError(t, err)

	want := e.path("cap.pcap") + ": pcap (extension pcap recognized)\n" +
		e.path("cap.pcap") + ": pcap (file content recognized)\n" +
		e.path("rec.bin") + ": unknown\n"
	assert.Equal(t, want, out)

	_, err = e.run("detect")
	assert.Error(t, err)
}

func TestDumpJSON(t *testing.T) {
	t.Parallel()

	e := newEnv(t, "")
	out, err := e.run("dump", "--format", "json", e.path("cap.pcap"))
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	require.Len(t, got, 2)
	assert.Equal(t, "LINKTYPE_ETHERNET", got[0]["linktype"])
	assert.Equal(t, "abcd", got[1]["payload"])
}

func TestDecompress(t *testing.T) {
	t.Parallel()

	e := newEnv(t, "")
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err := w.Write(pcapFile())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	e.write(t, "cap.pcap.gz", gz.Bytes())

	out, err := e.run("--decompress", "detect", e.path("cap.pcap.gz"))
	require.NoError(t, err)
	assert.Contains(t, out, e.path("cap.pcap")+": pcap (extension pcap recognized)")

	out, err = e.run("detect", e.path("cap.pcap.gz"))
	require.NoError(t, err)
	assert.Equal(t, e.path("cap.pcap.gz")+": unknown\n", out)

	out, err = e.run("-z", "dump", "--format", "json", e.path("cap.pcap.gz"))
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	require.Len(t, got, 2)
	assert.Equal(t, "abcd", got[1]["payload"])
}

func TestDumpText(t *testing.T) {
	t.Parallel()

	e := newEnv(t, "")
	out, err := e.run("dump", "--type", "pcap", e.path("cap.pcap"))
	require.NoError(t, err)
	assert.Contains(t, out, "FileHeader: FileHeader  // Capture file header")
	assert.Contains(t, out, "linktype: LINKTYPE_ETHERNET (1)")
	assert.Contains(t, out, "payload: ab cd")

	_, err = e.run("dump", "--type", "elf", e.path("cap.pcap"))
	assert.Error(t, err, "a pcap file is not an ELF file")
	_, err = e.run("dump", "--type", "jpeg", e.path("cap.pcap"))
	assert.Error(t, err)
	_, err = e.run("dump", e.path("rec.bin"))
	assert.Error(t, err, "no file type recognized")
}

func TestDumpLayout(t *testing.T) {
	t.Parallel()

	e := newEnv(t, "")
	out, err := e.run("dump", "--layout", e.path("rec.layout"), "--struct", "Rec", "--offset", "0x1", "--format", "yaml", e.path("rec.bin"))
	require.NoError(t, err)

	got := map[string]any{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, map[string]any{"kind": "ONE", "n": 2, "body": "4142"}, got)

	_, err = e.run("dump", "--layout", e.path("rec.layout"), e.path("rec.bin"))
	assert.Error(t, err, "--layout without --struct")
	_, err = e.run("dump", "--layout", e.path("rec.layout"), "--struct", "Nope", e.path("rec.bin"))
	assert.Error(t, err)
	_, err = e.run("dump", "--layout", e.path("rec.layout"), "--struct", "Rec", "--offset", "-1", e.path("rec.bin"))
	assert.Error(t, err)
}

func TestDumpConfig(t *testing.T) {
	t.Parallel()

	e := newEnv(t, "format: json\nlog_level: error\n")
	out, err := e.run("dump", "--layout", e.path("rec.layout"), "--struct", "Rec", "--offset", "1", e.path("rec.bin"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"), "config format applies: %s", out)

	out, err = e.run("dump", "--format", "text", "--layout", e.path("rec.layout"), "--struct", "Rec", "--offset", "1", e.path("rec.bin"))
	require.NoError(t, err)
	assert.Contains(t, out, "kind: ONE (1)", "flag wins over config")

	_, err = e.run("dump", "--format", "xml", "--layout", e.path("rec.layout"), "--struct", "Rec", e.path("rec.bin"))
	assert.Error(t, err)
}

func TestBadConfig(t *testing.T) {
	t.Parallel()

	e := newEnv(t, "format: [json\n")
	_, err := e.run("types")
	assert.Error(t, err)

	_, err = newEnv(t, "log_format: xml\n").run("types")
	assert.Error(t, err)

	out := &bytes.Buffer{}
	err = newApp(out, out).Run(context.Background(), []string{"bindecl", "--config", filepath.Join(e.dir, "missing.yaml"), "types"})
	assert.Error(t, err)
}

func TestHexdump(t *testing.T) {
	t.Parallel()

	e := newEnv(t, "")
	out, err := e.run("hexdump", "--offset", "1", "--length", "2", e.path("rec.bin"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "00000000  ff 01 02 41 42"), out)

	_, err = e.run("hexdump", "--offset", "10", e.path("rec.bin"))
	assert.Error(t, err)
	_, err = e.run("hexdump", "--offset", "zero", e.path("rec.bin"))
	assert.Error(t, err)
}

func TestParseOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "64", want: 64},
		{in: "0x40", want: 64},
		{in: "-1", wantErr: true},
		{in: "", wantErr: true},
		{in: "4k", wantErr: true},
	}
	for _, test := range tests {
		got, err := parseOffset(test.in)
		if test.wantErr {
			assert.Error(t, err, test.in)
			continue
		}
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, got, test.in)
	}
}
