// Package bundlecache finds compiler analytics dumps in the cache the model
// runner service keeps for compiled Core ML bundles.
//
// Every compiled bundle leaves an "analytics.mil" file somewhere under the
// cache directory tree. The package walks that tree and reports the dumps it
// finds, typically to pick the most recently modified one, which corresponds
// to the last model compiled on the machine.
package bundlecache

import (
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/gomlx/milscope/internal/fsutil"
)

const (
	// DefaultCacheDir is where the model runner service keeps the compiled
	// bundles. The "~" is expanded to the current user's home directory.
	DefaultCacheDir = "~/Library/Caches/com.apple.dt.DTMLModelRunnerService/com.apple.e5rt.e5bundlecache/"

	// AnalyticsFileName is the name of the compiler analytics dump left inside
	// each cached bundle.
	AnalyticsFileName = "analytics.mil"
)

// Entry is one analytics dump found in the bundle cache.
type Entry struct {
	// Path of the analytics file.
	Path string

	// ModTime is the file's last modification time, which for analytics dumps
	// is the time the bundle was compiled.
	ModTime time.Time

	// Size of the file in bytes.
	Size int64
}

// Walk traverses cacheDir and calls onFound for every analytics dump in it.
// The "~" prefix in cacheDir is expanded to the user's home directory.
//
// onVisited, if not nil, is called with every filesystem entry walked, and can
// be used to drive a progress indicator over large caches.
//
// An unreadable cacheDir is an error; unreadable entries inside it are
// silently skipped, the cache commonly has bundles owned by other processes.
func Walk(cacheDir string, onVisited func(path string), onFound func(entry Entry) error) error {
	cacheDir, err := fsutil.ReplaceTildeInDir(cacheDir)
	if err != nil {
		return err
	}
	err = filepath.WalkDir(cacheDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == cacheDir {
				return errors.Wrapf(err, "failed to read bundle cache directory %q", cacheDir)
			}
			return nil
		}
		if onVisited != nil {
			onVisited(path)
		}
		if d.IsDir() || d.Name() != AnalyticsFileName {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		return onFound(Entry{Path: path, ModTime: info.ModTime(), Size: info.Size()})
	})
	return err
}

// List returns every analytics dump under cacheDir, most recently modified
// first. See Walk for the handling of cacheDir and onVisited.
func List(cacheDir string, onVisited func(path string)) ([]Entry, error) {
	var entries []Entry
	err := Walk(cacheDir, onVisited, func(entry Entry) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].ModTime.After(entries[j].ModTime)
		}
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// Latest returns the most recently modified analytics dump under cacheDir.
// It returns an error if the cache holds none.
func Latest(cacheDir string, onVisited func(path string)) (Entry, error) {
	var latest Entry
	found := false
	err := Walk(cacheDir, onVisited, func(entry Entry) error {
		if !found || entry.ModTime.After(latest.ModTime) {
			latest = entry
			found = true
		}
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	if !found {
		return Entry{}, errors.Errorf("no %q files found under %q", AnalyticsFileName, cacheDir)
	}
	return latest, nil
}
