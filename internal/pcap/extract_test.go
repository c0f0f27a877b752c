package pcap

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

type tcpSpec struct {
	src, dst         string
	srcPort, dstPort uint16
	seq              uint32
	syn              bool
	payload          []byte
}

// buildTCPPacket builds a synthetic Ethernet+IPv4+TCP packet.
func buildTCPPacket(t *testing.T, s tcpSpec) []byte {
	t.Helper()
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		SrcIP:    net.ParseIP(s.src).To4(),
		DstIP:    net.ParseIP(s.dst).To4(),
		Protocol: layers.IPProtocolTCP,
	}
	tcp := &layers.TCP{
		SrcPort: layers.TCPPort(s.srcPort),
		DstPort: layers.TCPPort(s.dstPort),
		Seq:     s.seq,
		SYN:     s.syn,
		ACK:     !s.syn,
		Window:  14600,
	}
	tcp.SetNetworkLayerForChecksum(ip)

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, tcp, gopacket.Payload(s.payload)); err != nil {
		t.Fatalf("serialize tcp packet: %v", err)
	}
	return buf.Bytes()
}

func captureInfo(i, n int) gopacket.CaptureInfo {
	return gopacket.CaptureInfo{
		Timestamp:     time.Unix(1700000000, int64(i)*int64(time.Millisecond)),
		CaptureLength: n,
		Length:        n,
	}
}

func writePCAP(t *testing.T, packets ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "print.pcap")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create pcap: %v", err)
	}
	defer file.Close()

	writer := pcapgo.NewWriter(file)
	if err := writer.WriteFileHeader(65535, layers.LinkTypeEthernet); err != nil {
		t.Fatalf("write pcap header: %v", err)
	}
	for i, packet := range packets {
		if err := writer.WritePacket(captureInfo(i, len(packet)), packet); err != nil {
			t.Fatalf("write packet: %v", err)
		}
	}
	return path
}

func writePCAPNG(t *testing.T, packets ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer, err := pcapgo.NewNgWriter(&buf, layers.LinkTypeEthernet)
	if err != nil {
		t.Fatalf("create pcapng writer: %v", err)
	}
	for i, packet := range packets {
		if err := writer.WritePacket(captureInfo(i, len(packet)), packet); err != nil {
			t.Fatalf("write packet: %v", err)
		}
	}
	if err := writer.Flush(); err != nil {
		t.Fatalf("flush pcapng: %v", err)
	}
	return buf.Bytes()
}

func TestExtractReordersAndDropsRetransmits(t *testing.T) {
	client := tcpSpec{src: "10.0.0.5", dst: "10.0.0.20", srcPort: 40000, dstPort: 9100}
	pkt := func(seq uint32, syn bool, payload string) []byte {
		s := client
		s.seq, s.syn, s.payload = seq, syn, []byte(payload)
		return buildTCPPacket(t, s)
	}
	reply := buildTCPPacket(t, tcpSpec{src: "10.0.0.20", dst: "10.0.0.5", srcPort: 9100, dstPort: 40000, seq: 7, payload: []byte("@PJL USTATUS")})
	web := buildTCPPacket(t, tcpSpec{src: "10.0.0.5", dst: "10.0.0.20", srcPort: 40001, dstPort: 80, seq: 1, payload: []byte("GET /")})

	path := writePCAP(t,
		pkt(999, true, ""),
		pkt(1003, false, "\x1b&l1O"),
		reply,
		pkt(1000, false, "\x1bE\x1b"),
		web,
		pkt(1000, false, "\x1bE\x1b"),
		pkt(1008, false, "Hello\f"),
	)

	res, err := ExtractFile(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if res.Format != FormatPCAP {
		t.Fatalf("format = %s, want pcap", res.Format)
	}
	if res.Packets != 7 {
		t.Fatalf("packets = %d, want 7", res.Packets)
	}
	if len(res.Flows) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(res.Flows))
	}
	f := res.Flows[0]
	if got, want := string(f.Raw), "\x1bE\x1b\x1b&l1OHello\f"; got != want {
		t.Fatalf("payload = %q, want %q", got, want)
	}
	if f.Retransmits != 1 || f.Gaps != 0 {
		t.Fatalf("retransmits/gaps = %d/%d, want 1/0", f.Retransmits, f.Gaps)
	}
	if f.Packets != 5 {
		t.Fatalf("flow packets = %d, want 5", f.Packets)
	}
	if f.Key() != "10.0.0.5:40000->10.0.0.20:9100" {
		t.Fatalf("key = %s", f.Key())
	}
	if f.Name() != "10.0.0.5_40000-10.0.0.20_9100" {
		t.Fatalf("name = %s", f.Name())
	}
	if !f.Last.After(f.First) {
		t.Fatal("flow timestamps not recorded")
	}
}

func TestExtractPCAPNGAndLPD(t *testing.T) {
	control := "Hprinthost\nPalice\nldfA001printhost\n"
	data := "\x1bE\x1b&l2ABody\f\x1bE"
	stream := "\x02raw\n" +
		"\x02" + strconv.Itoa(len(control)) + " cfA001printhost\n" + control + "\x00" +
		"\x03" + strconv.Itoa(len(data)) + " dfA001printhost\n" + data + "\x00"

	mid := len(stream) / 2
	a := buildTCPPacket(t, tcpSpec{src: "10.1.1.1", dst: "10.1.1.2", srcPort: 721, dstPort: 515, seq: 50, syn: true})
	b := buildTCPPacket(t, tcpSpec{src: "10.1.1.1", dst: "10.1.1.2", srcPort: 721, dstPort: 515, seq: 51, payload: []byte(stream[:mid])})
	c := buildTCPPacket(t, tcpSpec{src: "10.1.1.1", dst: "10.1.1.2", srcPort: 721, dstPort: 515, seq: 51 + uint32(mid), payload: []byte(stream[mid:])})

	res, err := Extract(context.Background(), bytes.NewReader(writePCAPNG(t, a, b, c)), Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Format != FormatPCAPNG {
		t.Fatalf("format = %s, want pcapng", res.Format)
	}
	if len(res.Flows) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(res.Flows))
	}
	f := res.Flows[0]
	if f.LPDErr != nil {
		t.Fatalf("LPD decode: %v", f.LPDErr)
	}
	if f.LPD.Queue != "raw" {
		t.Fatalf("queue = %q", f.LPD.Queue)
	}
	if len(f.LPD.Control) != 1 || string(f.LPD.Control[0].Data) != control {
		t.Fatalf("unexpected control files: %+v", f.LPD.Control)
	}
	if string(f.Payload()) != data {
		t.Fatalf("payload = %q, want %q", f.Payload(), data)
	}
}

func TestExtractPortFilter(t *testing.T) {
	raw := buildTCPPacket(t, tcpSpec{src: "10.0.0.1", dst: "10.0.0.2", srcPort: 5000, dstPort: 9100, seq: 1, payload: []byte("A")})
	alt := buildTCPPacket(t, tcpSpec{src: "10.0.0.1", dst: "10.0.0.2", srcPort: 5001, dstPort: 9101, seq: 1, payload: []byte("B")})
	path := writePCAP(t, raw, alt)

	res, err := ExtractFile(context.Background(), path, Options{Ports: []uint16{9101}})
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if len(res.Flows) != 1 || string(res.Flows[0].Raw) != "B" {
		t.Fatalf("expected only the 9101 flow, got %+v", res.Flows)
	}
}

func TestExtractPortReuse(t *testing.T) {
	mk := func(seq uint32, syn bool, payload string) []byte {
		return buildTCPPacket(t, tcpSpec{src: "10.0.0.1", dst: "10.0.0.2", srcPort: 6000, dstPort: 9100, seq: seq, syn: syn, payload: []byte(payload)})
	}
	path := writePCAP(t, mk(10, true, ""), mk(11, false, "first"), mk(500, true, ""), mk(501, false, "second"))

	res, err := ExtractFile(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if len(res.Flows) != 2 {
		t.Fatalf("expected 2 flows, got %d", len(res.Flows))
	}
	if string(res.Flows[0].Raw) != "first" || string(res.Flows[1].Raw) != "second" {
		t.Fatalf("unexpected payloads %q %q", res.Flows[0].Raw, res.Flows[1].Raw)
	}
}

func TestExtractCancelled(t *testing.T) {
	path := writePCAP(t, buildTCPPacket(t, tcpSpec{src: "10.0.0.1", dst: "10.0.0.2", srcPort: 1, dstPort: 9100, seq: 1, payload: []byte("x")}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractFile(ctx, path, Options{}); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractUnknownMagic(t *testing.T) {
	_, err := Extract(context.Background(), strings.NewReader("\x1bE not a capture"), Options{})
	if err == nil || !strings.Contains(err.Error(), "unknown magic") {
		t.Fatalf("expected unknown magic error, got %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		magic []byte
		want  Format
	}{
		{[]byte{0xD4, 0xC3, 0xB2, 0xA1}, FormatPCAP},
		{[]byte{0xA1, 0xB2, 0xC3, 0xD4}, FormatPCAP},
		{[]byte{0x4D, 0x3C, 0xB2, 0xA1}, FormatPCAP},
		{[]byte{0x0A, 0x0D, 0x0D, 0x0A}, FormatPCAPNG},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.magic)
		if err != nil || got != tt.want {
			t.Errorf("DetectFormat(% X) = %s, %v; want %s", tt.magic, got, err, tt.want)
		}
	}
	if _, err := DetectFormat([]byte{1, 2}); err == nil {
		t.Error("short magic should fail")
	}
}

func TestReassembleGapAndWrap(t *testing.T) {
	var s stream
	s.add(0xFFFFFFFE, false, []byte("ab"))
	s.add(0x00000000, false, []byte("cd"))
	s.add(0x00000010, false, []byte("zz"))

	data, gaps, retransmits := s.reassemble()
	if string(data) != "abcdzz" {
		t.Fatalf("data = %q", data)
	}
	if gaps != 1 || retransmits != 0 {
		t.Fatalf("gaps/retransmits = %d/%d, want 1/0", gaps, retransmits)
	}
}

func TestReassembleOverlap(t *testing.T) {
	var s stream
	s.add(99, true, nil)
	s.add(100, false, []byte("hello"))
	s.add(103, false, []byte("lo world"))

	data, _, retransmits := s.reassemble()
	if string(data) != "hello world" {
		t.Fatalf("data = %q", data)
	}
	if retransmits != 1 {
		t.Fatalf("retransmits = %d, want 1", retransmits)
	}
}

func TestParseLPD(t *testing.T) {
	t.Run("unknown length data file", func(t *testing.T) {
		job, err := ParseLPD([]byte("\x02lp\n\x030 dfA1host\n\x1bEpage\x00"))
		if err != nil {
			t.Fatalf("ParseLPD: %v", err)
		}
		if string(job.Payload()) != "\x1bEpage" {
			t.Fatalf("payload = %q", job.Payload())
		}
	})

	t.Run("truncated", func(t *testing.T) {
		job, err := ParseLPD([]byte("\x02lp\n\x0320 dfA1host\n\x1bE"))
		if err == nil || !strings.Contains(err.Error(), "truncated: 2 of 20 bytes") {
			t.Fatalf("expected truncation error, got %v", err)
		}
		if string(job.Payload()) != "\x1bE" {
			t.Fatalf("partial payload = %q", job.Payload())
		}
	})

	t.Run("abort", func(t *testing.T) {
		job, err := ParseLPD([]byte("\x02lp\n\x01\n"))
		if err != nil || len(job.DataFiles) != 0 {
			t.Fatalf("abort should end the job cleanly: %+v %v", job, err)
		}
	})

	t.Run("not lpd", func(t *testing.T) {
		if _, err := ParseLPD([]byte("\x1bE")); err == nil {
			t.Fatal("expected error for non-LPD data")
		}
	})
}

func TestWriteFlows(t *testing.T) {
	dir := t.TempDir()
	flows := []*Flow{
		{SrcIP: "10.0.0.1", DstIP: "10.0.0.2", SrcPort: 1, DstPort: 9100, Raw: []byte("one")},
		{SrcIP: "10.0.0.1", DstIP: "10.0.0.2", SrcPort: 1, DstPort: 9100, Raw: []byte("two")},
	}
	paths, err := WriteFlows(filepath.Join(dir, "out"), "job-", flows)
	if err != nil {
		t.Fatalf("WriteFlows: %v", err)
	}
	if len(paths) != 2 || paths[0] == paths[1] {
		t.Fatalf("unexpected paths %v", paths)
	}
	if filepath.Base(paths[0]) != "job-10.0.0.1_1-10.0.0.2_9100.prn" {
		t.Fatalf("unexpected name %s", paths[0])
	}
	got, err := os.ReadFile(paths[1])
	if err != nil || string(got) != "two" {
		t.Fatalf("second file = %q, %v", got, err)
	}

	found, err := CollectPcapFiles(dir)
	if err != nil || len(found) != 0 {
		t.Fatalf("no captures expected, got %v %v", found, err)
	}
}

func TestBPFFilter(t *testing.T) {
	if got := BPFFilter(nil); got != "tcp dst port 9100 or tcp dst port 515" {
		t.Fatalf("BPFFilter(nil) = %q", got)
	}
	if got := BPFFilter([]uint16{631}); got != "tcp dst port 631" {
		t.Fatalf("BPFFilter = %q", got)
	}
}
