// Package ops holds offline maintenance for the save directory.
package ops

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"stairwell/internal/save"

	"github.com/google/uuid"
)

const manifestName = "MANIFEST.json"

// Manifest is written as the first archive entry.
type Manifest struct {
	BackupID  string    `json:"backup_id"`
	CreatedAt time.Time `json:"created_at"`
	Files     []string  `json:"files"`
}

// BackupSaves archives every save file under dataDir. Each file must
// decode as a save before it is added.
func BackupSaves(dataDir, archivePath string, now time.Time) (Manifest, error) {
	dataDir = filepath.Clean(strings.TrimSpace(dataDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if dataDir == "" || archivePath == "" {
		return Manifest{}, fmt.Errorf("data dir and archive path are required")
	}
	files, err := saveFiles(dataDir)
	if err != nil {
		return Manifest{}, err
	}
	m := Manifest{BackupID: uuid.NewString(), CreatedAt: now.UTC(), Files: files}

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return Manifest{}, err
	}
	f, err := os.Create(archivePath)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	mb, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return Manifest{}, err
	}
	if err := writeEntry(tw, manifestName, mb, now); err != nil {
		return Manifest{}, err
	}
	for _, rel := range files {
		b, err := os.ReadFile(filepath.Join(dataDir, filepath.FromSlash(rel)))
		if err != nil {
			return Manifest{}, err
		}
		if _, _, err := save.Decode(b); err != nil {
			return Manifest{}, fmt.Errorf("%s: %w", rel, err)
		}
		if err := writeEntry(tw, rel, b, now); err != nil {
			return Manifest{}, err
		}
	}

	if err := tw.Close(); err != nil {
		return Manifest{}, err
	}
	if err := gz.Close(); err != nil {
		return Manifest{}, err
	}
	return m, f.Close()
}

// RestoreSaves unpacks an archive made by BackupSaves into targetDir.
// Entries that do not decode as saves are rejected.
func RestoreSaves(archivePath, targetDir string) (Manifest, error) {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))
	if archivePath == "" || targetDir == "" {
		return Manifest{}, fmt.Errorf("archive path and target dir are required")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return Manifest{}, err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return Manifest{}, err
	}
	defer gz.Close()

	var m Manifest
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Manifest{}, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		rel, err := sanitizeArchiveRelPath(hdr.Name)
		if err != nil {
			return Manifest{}, err
		}
		b, err := io.ReadAll(tr)
		if err != nil {
			return Manifest{}, err
		}

		if rel == manifestName {
			if err := json.Unmarshal(b, &m); err != nil {
				return Manifest{}, fmt.Errorf("manifest: %w", err)
			}
			continue
		}
		if _, _, err := save.Decode(b); err != nil {
			return Manifest{}, fmt.Errorf("%s: %w", rel, err)
		}
		out := filepath.Join(targetDir, rel)
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return Manifest{}, err
		}
		if err := os.WriteFile(out, b, 0o644); err != nil {
			return Manifest{}, err
		}
	}
	if m.BackupID == "" {
		return Manifest{}, fmt.Errorf("archive has no manifest")
	}
	return m, nil
}

func saveFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}
	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(out)
	return out, err
}

func writeEntry(tw *tar.Writer, name string, b []byte, mod time.Time) error {
	hdr := &tar.Header{
		Name:     name,
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(b)),
		ModTime:  mod,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(b)
	return err
}

func sanitizeArchiveRelPath(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	if name == "." || name == "" {
		return "", fmt.Errorf("invalid archive entry path")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid absolute archive entry path: %s", name)
	}
	if strings.HasPrefix(name, ".."+string(filepath.Separator)) || name == ".." {
		return "", fmt.Errorf("invalid archive entry path traversal: %s", name)
	}
	return name, nil
}
