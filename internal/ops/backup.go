// Package ops implements operational tooling for the snapshot data
// directory: verified tar.gz backups and restores used by the discip-ops CLI.
package ops

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
)

const snapshotFile = "state.json"

// SnapshotInfo summarizes the snapshot found in a data directory.
type SnapshotInfo struct {
	Goals       int
	Categories  int
	Rules       int
	ActiveRules int
}

// VerifySnapshot parses the snapshot in dir and reports record counts. Both
// backup and restore run it, so a corrupt state file fails loudly instead of
// silently propagating through the archive chain.
func VerifySnapshot(dir string) (SnapshotInfo, error) {
	b, err := os.ReadFile(filepath.Join(dir, snapshotFile))
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("read snapshot: %w", err)
	}
	var s model.State
	if err := json.Unmarshal(b, &s); err != nil {
		return SnapshotInfo{}, fmt.Errorf("parse snapshot: %w", err)
	}
	info := SnapshotInfo{
		Goals:      len(s.Goals),
		Categories: len(s.Categories),
		Rules:      len(s.Rules),
	}
	for i := range s.Rules {
		if s.Rules[i].IsActive {
			info.ActiveRules++
		}
	}
	return info, nil
}

// BackupSnapshot verifies the snapshot in dataDir and archives the directory
// as a tar.gz. Entries are regular files only, written in sorted order, so
// identical data dirs produce archives with identical member lists.
func BackupSnapshot(dataDir, archivePath string) (SnapshotInfo, error) {
	dataDir = filepath.Clean(strings.TrimSpace(dataDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if dataDir == "" || archivePath == "" {
		return SnapshotInfo{}, fmt.Errorf("dataDir and archivePath are required")
	}

	info, err := VerifySnapshot(dataDir)
	if err != nil {
		return SnapshotInfo{}, err
	}

	rels, err := snapshotFiles(dataDir)
	if err != nil {
		return SnapshotInfo{}, err
	}

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return SnapshotInfo{}, err
	}
	f, err := os.Create(archivePath)
	if err != nil {
		return SnapshotInfo{}, err
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	werr := writeEntries(tw, dataDir, rels)
	for _, c := range []io.Closer{tw, gz, f} {
		if cerr := c.Close(); werr == nil {
			werr = cerr
		}
	}
	if werr != nil {
		return SnapshotInfo{}, werr
	}
	return info, nil
}

// RestoreSnapshot unpacks an archive into targetDir and verifies that the
// restored snapshot parses, reporting what came back.
func RestoreSnapshot(archivePath, targetDir string) (SnapshotInfo, error) {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))
	if archivePath == "" || targetDir == "" {
		return SnapshotInfo{}, fmt.Errorf("archivePath and targetDir are required")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return SnapshotInfo{}, err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return SnapshotInfo{}, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return SnapshotInfo{}, err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return SnapshotInfo{}, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		rel, err := entryRelPath(hdr.Name)
		if err != nil {
			return SnapshotInfo{}, err
		}
		outPath := filepath.Join(targetDir, rel)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return SnapshotInfo{}, err
		}
		dst, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
		if err != nil {
			return SnapshotInfo{}, err
		}
		if _, err := io.Copy(dst, tr); err != nil {
			_ = dst.Close()
			return SnapshotInfo{}, err
		}
		if err := dst.Close(); err != nil {
			return SnapshotInfo{}, err
		}
	}

	return VerifySnapshot(targetDir)
}

// snapshotFiles lists the regular files under root as sorted slash-relative
// paths. Symlinks and other irregular entries are skipped.
func snapshotFiles(root string) ([]string, error) {
	var rels []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(rels)
	return rels, nil
}

func writeEntries(tw *tar.Writer, root string, rels []string) error {
	for _, rel := range rels {
		full := filepath.Join(root, filepath.FromSlash(rel))
		fi, err := os.Stat(full)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		src, err := os.Open(full)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, src); err != nil {
			_ = src.Close()
			return err
		}
		if err := src.Close(); err != nil {
			return err
		}
	}
	return nil
}

func entryRelPath(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	if name == "." || name == "" {
		return "", fmt.Errorf("invalid archive entry path")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid absolute archive entry path: %s", name)
	}
	if name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid archive entry path traversal: %s", name)
	}
	return name, nil
}
