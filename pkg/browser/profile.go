package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	"github.com/otiai10/copy"

	"github.com/entrhq/waprobe/pkg/logging"
)

const (
	// DefaultProfilesRoot is used when no profiles directory is configured
	DefaultProfilesRoot = "browser_profiles"

	// SingleSuffix is the profile used by single-session modes and cloned for workers
	SingleSuffix = "single"

	// MainSuffix is used when no suffix is given
	MainSuffix = "main"
)

// ProfileName returns the directory name for kind and suffix.
func ProfileName(kind Kind, suffix string) string {
	if suffix == "" {
		suffix = MainSuffix
	}
	return fmt.Sprintf("%s_whatsapp_profile_%s", kind, suffix)
}

// ProfileDir returns the profile directory for kind and suffix under root.
func ProfileDir(root string, kind Kind, suffix string) string {
	return filepath.Join(root, ProfileName(kind, suffix))
}

// WorkerSuffix returns the profile suffix of worker id (1-based).
func WorkerSuffix(id int) string {
	return fmt.Sprintf("worker_%d", id)
}

// lockFiles are left behind by a running browser and must not be cloned.
var lockFiles = map[string]bool{
	"SingletonLock":   true,
	"SingletonCookie": true,
	"SingletonSocket": true,
	"parent.lock":     true,
	".parentlock":     true,
	"lock":            true,
}

// PrepareWorkerProfiles clones the authenticated single-mode profile into
// worker_1..worker_count. Existing worker profiles are left untouched.
//
// A missing source profile is logged as a warning and is not an error: the
// workers will then start unauthenticated and wait at the login gate. Failing
// to clone one worker is logged and the remaining workers are still prepared.
func PrepareWorkerProfiles(root string, kind Kind, count int) error {
	log := logging.NewLogger("browser")

	if _, err := variantFor(kind); err != nil {
		log.Warnf("Unsupported browser for profile cloning: %s", kind)
		return err
	}

	source := ProfileDir(root, kind, SingleSuffix)
	if _, err := os.Stat(source); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warnf("Single-mode profile not found: %s", source)
			log.Warnf("Run once with mode 'single' to create and log in.")
			return nil
		}
		return fmt.Errorf("failed to stat source profile: %w", err)
	}

	log.Infof("Preparing worker profiles from base: %s", source)

	opts := copy.Options{
		OnSymlink: func(string) copy.SymlinkAction { return copy.Skip },
		Skip: func(info os.FileInfo, src, dest string) (bool, error) {
			return lockFiles[info.Name()], nil
		},
	}

	for id := 1; id <= count; id++ {
		target := ProfileDir(root, kind, WorkerSuffix(id))

		if _, err := os.Stat(target); err == nil {
			log.Infof("Worker profile already exists, skipping clone: %s", target)
			continue
		}

		log.Infof("Cloning profile to: %s", target)
		if err := copy.Copy(source, target, opts); err != nil {
			log.Warnf("Failed to clone profile to %s: %v", target, err)
		}
	}

	return nil
}

// ProfileInfo describes a profile directory on disk.
type ProfileInfo struct {
	Name    string
	Path    string
	ModTime string
}

// ListProfiles returns the profile directories under root whose name matches
// the glob pattern (e.g. "chrome_*_worker_*"). An empty pattern matches every
// profile. A missing root yields no profiles.
func ListProfiles(root, pattern string) ([]ProfileInfo, error) {
	if pattern == "" {
		pattern = "*_whatsapp_profile_*"
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid profile pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profiles directory: %w", err)
	}

	var profiles []ProfileInfo
	for _, entry := range entries {
		if !entry.IsDir() || !g.Match(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		profiles = append(profiles, ProfileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(root, entry.Name()),
			ModTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}
