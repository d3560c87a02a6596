package apkscan

import (
	"archive/zip"
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thanm/dexview/dexfile"
	"github.com/thanm/dexview/internal/dextestutil"
)

func writeToyAPK(t *testing.T, names ...string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(dextestutil.BuildToyDex())
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	f, err := os.CreateTemp(t.TempDir(), "toy-*.apk")
	require.NoError(t, err)
	_, err = f.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestScanAPKMultipleDex(t *testing.T) {
	path := writeToyAPK(t, "classes.dex", "classes2.dex", "AndroidManifest.xml")

	visitor := &dextestutil.CaptureVisitor{Instrs: true}
	err := ScanAPK(path, dexfile.VerifyAll, visitor)
	require.NoError(t, err)

	dexLines := 0
	for _, line := range visitor.Result {
		if line == " DEX classes.dex sha1 "+sigHex(t) || line == " DEX classes2.dex sha1 "+sigHex(t) {
			dexLines++
		}
	}
	require.Equal(t, 2, dexLines, "expected both embedded DEX entries visited, got %v", visitor.Result)
	require.Contains(t, visitor.Result, "  class LFoo; methods: 1")
}

func TestScanAPKNonexistent(t *testing.T) {
	visitor := &dextestutil.CaptureVisitor{}
	err := ScanAPK("does-not-exist.apk", dexfile.VerifyNone, visitor)
	require.Error(t, err)
}

func sigHex(t *testing.T) string {
	t.Helper()
	data := dextestutil.BuildToyDex()
	view, err := dexfile.OpenBytes(data, dexfile.VerifyNone)
	require.NoError(t, err)
	header := view.Header()
	return hexBytes(header.Signature[:])
}

func hexBytes(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 0, len(b)*2)
	for _, v := range b {
		out = append(out, digits[v>>4], digits[v&0xf])
	}
	return string(out)
}
