package pcap

import (
	"sort"
)

type segment struct {
	seq     uint32
	payload []byte
}

// stream accumulates the segments of one direction of a TCP connection.
type stream struct {
	isn      uint32
	haveSYN  bool
	segments []segment
}

func (s *stream) add(seq uint32, syn bool, payload []byte) {
	if syn {
		s.isn = seq + 1
		s.haveSYN = true
	}
	if len(payload) == 0 {
		return
	}
	s.segments = append(s.segments, segment{seq: seq, payload: append([]byte(nil), payload...)})
}

// reassemble orders segments by sequence number relative to the initial
// sequence number, drops retransmitted bytes and counts holes. Without a SYN
// the lowest sequence number seen starts the stream.
func (s *stream) reassemble() (data []byte, gaps, retransmits int) {
	if len(s.segments) == 0 {
		return nil, 0, 0
	}
	base := s.isn
	if !s.haveSYN {
		base = s.segments[0].seq
		for _, seg := range s.segments[1:] {
			if int32(seg.seq-base) < 0 {
				base = seg.seq
			}
		}
	}

	segs := make([]segment, len(s.segments))
	copy(segs, s.segments)
	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].seq-base < segs[j].seq-base
	})

	var next uint32
	for _, seg := range segs {
		off := seg.seq - base
		end := off + uint32(len(seg.payload))
		switch {
		case end <= next:
			retransmits++
			continue
		case off < next:
			retransmits++
			data = append(data, seg.payload[next-off:]...)
		case off > next:
			gaps++
			data = append(data, seg.payload...)
		default:
			data = append(data, seg.payload...)
		}
		next = end
	}
	return data, gaps, retransmits
}
