package convert

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/plonxyz/convertctl/internal/detect"
	"github.com/plonxyz/convertctl/internal/models"
)

// ArchiveConverter lists archive members and recursively converts
// each non-binary entry while the recursion budget lasts. Entries are
// extracted to scratch files that are removed on every exit path. A
// failed nested conversion leaves the entry in the listing without
// converted content; it never aborts the parent archive.
type ArchiveConverter struct {
	opts Options
}

func NewArchive(opts Options) Converter {
	return &ArchiveConverter{opts: opts.withDefaults()}
}

func (c *ArchiveConverter) ExtractData(path string) (any, error) {
	tag, _ := detect.Detect(path)
	switch tag {
	case detect.TypeZip:
		return c.extractZip(path)
	case detect.TypeTar, detect.TypeGzip:
		return c.extractTar(path)
	default:
		return nil, fmt.Errorf("%w: unsupported archive type %q", ErrInvalidInput, tag)
	}
}

func (c *ArchiveConverter) extractZip(path string) (any, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	defer zr.Close()

	entries := []*models.ArchiveEntry{}
	for _, f := range zr.File {
		compressed := int64(f.CompressedSize64)
		entry := &models.ArchiveEntry{
			Filename:       f.Name,
			Size:           int64(f.UncompressedSize64),
			CompressedSize: &compressed,
			IsDirectory:    f.FileInfo().IsDir(),
		}

		if !entry.IsDirectory && c.opts.RecursionDepth > 0 {
			rc, err := f.Open()
			if err != nil {
				c.opts.Logger.Warn("error reading archive entry", "entry", f.Name, "error", err)
			} else {
				c.convertEntry(entry, f.Name, rc)
				rc.Close()
			}
		}

		entries = append(entries, entry)
	}

	return map[string]any{
		"archive_type": "zip",
		"file_count":   len(entries),
		"files":        entries,
	}, nil
}

func (c *ArchiveConverter) extractTar(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".tgz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		defer gz.Close()
		r = gz
	}

	entries := []*models.ArchiveEntry{}
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		entry := &models.ArchiveEntry{
			Filename:    hdr.Name,
			Size:        hdr.Size,
			IsDirectory: hdr.Typeflag == tar.TypeDir,
			Mode:        fmt.Sprintf("%#o", hdr.Mode),
			Mtime:       hdr.ModTime.Unix(),
		}

		if !entry.IsDirectory && c.opts.RecursionDepth > 0 {
			c.convertEntry(entry, hdr.Name, tr)
		}

		entries = append(entries, entry)
	}

	return map[string]any{
		"archive_type": "tar",
		"file_count":   len(entries),
		"files":        entries,
	}, nil
}

// convertEntry extracts one member to a scratch file, re-runs
// detection on it, and attaches the nested conversion payload if the
// entry resolves to a non-binary type. The scratch file is deleted
// unconditionally.
func (c *ArchiveConverter) convertEntry(entry *models.ArchiveEntry, name string, r io.Reader) {
	tmp, err := os.CreateTemp("", "convertctl-*"+filepath.Ext(name))
	if err != nil {
		c.opts.Logger.Warn("error creating scratch file", "entry", name, "error", err)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, copyErr := io.Copy(tmp, r)
	tmp.Close()
	if copyErr != nil {
		c.opts.Logger.Warn("error extracting archive entry", "entry", name, "error", copyErr)
		return
	}

	tag, _ := detect.Detect(tmpPath)
	if tag == detect.TypeBinary {
		return
	}

	childOpts := c.opts
	childOpts.RecursionDepth = c.opts.RecursionDepth - 1
	child := Resolve(tag)(childOpts)

	res, err := Run(child, tmpPath, c.opts.Logger)
	if err != nil {
		c.opts.Logger.Debug("could not convert archive entry", "entry", name, "error", err)
		return
	}
	entry.ConvertedContent = res.Data
}
