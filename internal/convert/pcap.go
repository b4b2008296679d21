package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// PcapConverter extracts packet summaries from capture files, up to
// the configured packet cap. The legacy pcap reader is tried first,
// then the pcapng reader; whichever accepts the file names the
// extraction method in the output.
type PcapConverter struct {
	opts Options
}

func NewPcap(opts Options) Converter {
	return &PcapConverter{opts: opts.withDefaults()}
}

type captureStrategy struct {
	name string
	fn   func(path string) ([]map[string]any, error)
}

func (c *PcapConverter) ExtractData(path string) (any, error) {
	strategies := []captureStrategy{
		{"pcapgo", c.readLegacy},
		{"pcapgo-ng", c.readNg},
	}

	for _, s := range strategies {
		packets, err := s.fn(path)
		if err != nil {
			c.opts.Logger.Debug("capture strategy failed", "strategy", s.name, "file", path, "error", err)
			continue
		}
		return map[string]any{
			"packet_count":      len(packets),
			"packets":           packets,
			"extraction_method": s.name,
		}, nil
	}

	return nil, fmt.Errorf("%w: no capture reader accepted %s", ErrMissingCapability, filepath.Base(path))
}

func (c *PcapConverter) readLegacy(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := pcapgo.NewReader(f)
	if err != nil {
		return nil, err
	}
	return c.readPackets(r, r.LinkType())
}

func (c *PcapConverter) readNg(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := pcapgo.NewNgReader(f, pcapgo.DefaultNgReaderOptions)
	if err != nil {
		return nil, err
	}
	return c.readPackets(r, r.LinkType())
}

type packetDataSource interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
}

func (c *PcapConverter) readPackets(src packetDataSource, link layers.LinkType) ([]map[string]any, error) {
	packets := []map[string]any{}
	for i := 0; ; i++ {
		if i >= c.opts.MaxPackets {
			c.opts.Logger.Info("reached max packets limit, stopping extraction", "limit", c.opts.MaxPackets)
			break
		}
		data, ci, err := src.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A torn record usually means the rest of the stream is
			// unreadable too.
			c.opts.Logger.Warn("error reading packet, stopping", "packet", i, "error", err)
			break
		}
		packets = append(packets, decodePacket(data, ci, link))
	}
	return packets, nil
}

func decodePacket(data []byte, ci gopacket.CaptureInfo, link layers.LinkType) map[string]any {
	pkt := gopacket.NewPacket(data, link, gopacket.Default)

	obj := map[string]any{
		"timestamp": float64(ci.Timestamp.UnixNano()) / 1e9,
		"length":    ci.Length,
	}

	if l := pkt.Layer(layers.LayerTypeIPv4); l != nil {
		ip := l.(*layers.IPv4)
		obj["src_ip"] = ip.SrcIP.String()
		obj["dst_ip"] = ip.DstIP.String()
		obj["protocol"] = ip.Protocol.String()
	} else if l := pkt.Layer(layers.LayerTypeIPv6); l != nil {
		ip := l.(*layers.IPv6)
		obj["src_ip"] = ip.SrcIP.String()
		obj["dst_ip"] = ip.DstIP.String()
		obj["protocol"] = ip.NextHeader.String()
	}

	if l := pkt.Layer(layers.LayerTypeTCP); l != nil {
		tcp := l.(*layers.TCP)
		obj["src_port"] = int(tcp.SrcPort)
		obj["dst_port"] = int(tcp.DstPort)
	} else if l := pkt.Layer(layers.LayerTypeUDP); l != nil {
		udp := l.(*layers.UDP)
		obj["src_port"] = int(udp.SrcPort)
		obj["dst_port"] = int(udp.DstPort)
	}

	if _, ok := obj["protocol"]; !ok {
		if top := pkt.Layers(); len(top) > 0 {
			obj["protocol"] = top[len(top)-1].LayerType().String()
		} else {
			obj["protocol"] = "unknown"
		}
	}

	names := make([]string, 0, len(pkt.Layers()))
	for _, layer := range pkt.Layers() {
		names = append(names, layer.LayerType().String())
	}
	obj["summary"] = strings.Join(names, "/")

	return obj
}
