// Package meta computes per-file metadata: size, modification time,
// and content hashes of three digest algorithms in a single pass.
package meta

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/plonxyz/convertctl/internal/models"
)

const hashChunkSize = 4096

// Extract returns metadata for path. MtimeISO is left empty; deriving
// it is the conversion template's job since it owns the formatting
// policy. A hashing failure yields empty digest strings rather than
// an error, but a stat failure is returned to the caller.
func Extract(path string, includeHashes bool) (models.FileMetadata, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return models.FileMetadata{}, err
	}

	md := models.FileMetadata{
		Size:  fi.Size(),
		Mtime: float64(fi.ModTime().Unix()),
	}

	if includeHashes {
		md.SHA256, md.SHA1, md.MD5 = hashFile(path)
	}
	return md, nil
}

// hashFile streams the file in fixed-size chunks, feeding all three
// digests from one read. Any failure returns empty strings for all
// digests.
func hashFile(path string) (string, string, string) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", ""
	}
	defer f.Close()

	h256 := sha256.New()
	h1 := sha1.New()
	hm := md5.New()
	w := io.MultiWriter(h256, h1, hm)

	buf := make([]byte, hashChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			w.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", "", ""
		}
	}

	return hex.EncodeToString(h256.Sum(nil)),
		hex.EncodeToString(h1.Sum(nil)),
		hex.EncodeToString(hm.Sum(nil))
}
