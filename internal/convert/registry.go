package convert

import "github.com/plonxyz/convertctl/internal/detect"

// Constructor builds a converter with the given run options.
type Constructor func(opts Options) Converter

// registry maps format tags to converter constructors.
var registry = map[string]Constructor{
	detect.TypeEvtx:   NewEvtx,
	detect.TypePcap:   NewPcap,
	detect.TypePcapng: NewPcap,
	detect.TypeCSV:    NewCSV,
	detect.TypeJSON:   NewJSON,
	detect.TypeXML:    NewXML,
	detect.TypeText:   NewText,
	detect.TypePDF:    NewPDF,
	detect.TypeDocx:   NewDocx,
	detect.TypeZip:    NewArchive,
	detect.TypeTar:    NewArchive,
	detect.TypeGzip:   NewArchive,
	detect.TypeBinary: NewBinary,
}

// Resolve returns the constructor for a format tag. Unrecognized tags
// fall back to the binary converter.
func Resolve(tag string) Constructor {
	if c, ok := registry[tag]; ok {
		return c
	}
	return NewBinary
}
