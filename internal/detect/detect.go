package detect

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/h2non/filetype"
)

// Format tags assigned by Detect. Handler selection keys off these.
const (
	TypeEvtx   = "evtx"
	TypePcap   = "pcap"
	TypePcapng = "pcapng"
	TypeCSV    = "csv"
	TypeJSON   = "json"
	TypeXML    = "xml"
	TypeText   = "txt"
	TypePDF    = "pdf"
	TypeDocx   = "docx"
	TypeZip    = "zip"
	TypeTar    = "tar"
	TypeGzip   = "gzip"
	TypeBinary = "binary"
)

// strategy is one detection attempt. A miss (ok=false) falls through
// to the next strategy; a strategy that errors internally is treated
// the same as a miss.
type strategy struct {
	name string
	fn   func(path string) (tag, mime string, ok bool)
}

var strategies = []strategy{
	{"mimetype", sniffMIME},
	{"filetype", sniffMagic},
	{"extension", byExtension},
}

// mimeTable maps content-sniffed MIME strings to format tags.
var mimeTable = []struct {
	mime string
	tag  string
}{
	{"application/x-evtx", TypeEvtx},
	{"application/vnd.tcpdump.pcap", TypePcap},
	{"application/vnd.tcpdump.pcapng", TypePcapng},
	{"application/pdf", TypePDF},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", TypeDocx},
	{"application/zip", TypeZip},
	{"application/gzip", TypeGzip},
	{"application/x-tar", TypeTar},
	{"text/csv", TypeCSV},
	{"application/json", TypeJSON},
	{"application/xml", TypeXML},
	{"text/xml", TypeXML},
	{"text/plain", TypeText},
}

// extensionMap is the last-resort lookup on the lowercased suffix.
var extensionMap = map[string]string{
	".evtx":   TypeEvtx,
	".pcap":   TypePcap,
	".pcapng": TypePcapng,
	".csv":    TypeCSV,
	".json":   TypeJSON,
	".xml":    TypeXML,
	".log":    TypeText,
	".txt":    TypeText,
	".pdf":    TypePDF,
	".docx":   TypeDocx,
	".zip":    TypeZip,
	".tar":    TypeTar,
	".gz":     TypeGzip,
	".tgz":    TypeTar,
}

var (
	evtxType   = filetype.NewType("evtx", "application/x-evtx")
	pcapType   = filetype.NewType("pcap", "application/vnd.tcpdump.pcap")
	pcapngType = filetype.NewType("pcapng", "application/vnd.tcpdump.pcapng")
)

func init() {
	// The stock matcher set has no entries for these capture formats.
	filetype.AddMatcher(evtxType, func(buf []byte) bool {
		return len(buf) >= 8 && bytes.Equal(buf[:8], []byte("ElfFile\x00"))
	})
	filetype.AddMatcher(pcapType, func(buf []byte) bool {
		if len(buf) < 4 {
			return false
		}
		magics := [][]byte{
			{0xd4, 0xc3, 0xb2, 0xa1},
			{0xa1, 0xb2, 0xc3, 0xd4},
			{0x4d, 0x3c, 0xb2, 0xa1},
			{0xa1, 0xb2, 0x3c, 0x4d},
		}
		for _, m := range magics {
			if bytes.Equal(buf[:4], m) {
				return true
			}
		}
		return false
	})
	filetype.AddMatcher(pcapngType, func(buf []byte) bool {
		return len(buf) >= 4 && bytes.Equal(buf[:4], []byte{0x0a, 0x0d, 0x0d, 0x0a})
	})
}

// Detect classifies a file into a format tag and MIME string. It
// never returns an error: each strategy is tried in order and any
// internal failure degrades to the next one, ending at the binary
// default. Resolution is deterministic for a given file's bytes and
// name.
func Detect(path string) (string, string) {
	for _, s := range strategies {
		if tag, mime, ok := runStrategy(s, path); ok {
			return tag, mime
		}
	}
	return TypeBinary, "application/octet-stream"
}

// DetectWith behaves like Detect but reports which strategy resolved
// the file, for debug logging.
func DetectWith(path string, logger *slog.Logger) (string, string) {
	for _, s := range strategies {
		if tag, mime, ok := runStrategy(s, path); ok {
			logger.Debug("detected file type", "file", path, "type", tag, "mime", mime, "strategy", s.name)
			return tag, mime
		}
	}
	logger.Debug("detected file type", "file", path, "type", TypeBinary, "strategy", "default")
	return TypeBinary, "application/octet-stream"
}

func runStrategy(s strategy, path string) (tag, mime string, ok bool) {
	defer func() {
		if recover() != nil {
			tag, mime, ok = "", "", false
		}
	}()
	return s.fn(path)
}

func sniffMIME(path string) (string, string, bool) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", "", false
	}
	for _, entry := range mimeTable {
		if mtype.Is(entry.mime) {
			return entry.tag, entry.mime, true
		}
	}
	return "", "", false
}

// sniffMagic consults the lightweight magic-byte library, used only
// for the capture formats registered in init.
func sniffMagic(path string) (string, string, bool) {
	kind, err := filetype.MatchFile(path)
	if err != nil || kind == filetype.Unknown {
		return "", "", false
	}
	switch kind.Extension {
	case "evtx", "pcap", "pcapng":
		return kind.Extension, kind.MIME.Value, true
	}
	return "", "", false
}

func byExtension(path string) (string, string, bool) {
	name := strings.ToLower(filepath.Base(path))
	// A name ending in .tar.gz resolves to tar, not gzip.
	if strings.HasSuffix(name, ".tar.gz") {
		return TypeTar, "application/x-gzip", true
	}
	if tag, ok := extensionMap[filepath.Ext(name)]; ok {
		return tag, "application/octet-stream", true
	}
	return "", "", false
}
