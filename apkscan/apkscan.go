// Package apkscan locates and opens every classes*.dex entry inside
// an Android APK (a zip archive) and drives a dexvisit.Visitor over
// the resulting dexfile.Views. Each DEX is parsed and visited
// independently — resolving references across the DEX files of a
// multi-dex APK is out of scope, same as it is for a single DEX.
package apkscan

import (
	"archive/zip"
	"fmt"
	"io"
	"regexp"

	"github.com/thanm/dexview/dexfile"
	"github.com/thanm/dexview/dexvisit"
)

var isDex = regexp.MustCompile(`^classes\d*\.dex$`)

// ScanAPK opens the APK at path and walks the contents of every DEX
// entry it contains, invoking visitor's callbacks per dexvisit.Walk's
// contract. preset controls how thoroughly each embedded DEX is
// verified before being walked. A malformed entry does not abort the
// scan of the rest of the APK; ScanAPK returns the last error seen, if
// any.
func ScanAPK(path string, preset dexfile.VerifyPreset, visitor dexvisit.Visitor) error {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("opening APK %s: %w", path, err)
	}
	defer rc.Close()

	visitor.VisitAPK(path)
	visitor.Verbose(1, "APK %s contains %d entries", path, len(rc.File))

	var lastErr error
	for i, f := range rc.File {
		if !isDex.MatchString(f.Name) {
			continue
		}
		visitor.Verbose(1, "dex file %s at entry %d", f.Name, i)
		if err := scanEntry(f, preset, visitor); err != nil {
			lastErr = fmt.Errorf("APK %s, entry %s: %w", path, f.Name, err)
		}
	}
	return lastErr
}

func scanEntry(f *zip.File, preset dexfile.VerifyPreset, visitor dexvisit.Visitor) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	data := make([]byte, f.UncompressedSize64)
	if _, err := io.ReadFull(rc, data); err != nil {
		return err
	}

	view, err := dexfile.OpenBytes(data, preset)
	if err != nil {
		return err
	}
	defer view.Close()

	visitor.VisitDEX(f.Name, view)
	return dexvisit.Walk(view, visitor)
}
