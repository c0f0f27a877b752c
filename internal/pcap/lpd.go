package pcap

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// LPD (RFC 1179) receive-job framing.
const (
	lpdReceiveJob = 0x02
	lpdAbort      = 0x01
	lpdControl    = 0x02
	lpdData       = 0x03
)

// LPDFile is one control or data file of a job.
type LPDFile struct {
	Name string
	Data []byte
}

// LPDJob is the client side of an LPD "receive a printer job" exchange.
type LPDJob struct {
	Queue     string
	Control   []LPDFile
	DataFiles []LPDFile
}

// Payload concatenates the data files in the order they were sent.
func (j *LPDJob) Payload() []byte {
	var out []byte
	for _, f := range j.DataFiles {
		out = append(out, f.Data...)
	}
	return out
}

// ParseLPD decodes the client-to-server bytes of an LPD connection. A job
// cut short by the end of the capture is returned with the bytes present and
// a non-nil error.
func ParseLPD(data []byte) (*LPDJob, error) {
	if len(data) == 0 || data[0] != lpdReceiveJob {
		return nil, fmt.Errorf("not an LPD receive-job command")
	}
	line, rest, ok := cutLine(data[1:])
	if !ok {
		return nil, fmt.Errorf("truncated LPD queue line")
	}
	job := &LPDJob{Queue: string(line)}

	for len(rest) > 0 {
		cmd := rest[0]
		if cmd == lpdAbort {
			return job, nil
		}
		if cmd != lpdControl && cmd != lpdData {
			return job, fmt.Errorf("unknown LPD subcommand 0x%02X", cmd)
		}
		line, after, ok := cutLine(rest[1:])
		if !ok {
			return job, fmt.Errorf("truncated LPD subcommand line")
		}
		countStr, name, _ := strings.Cut(string(line), " ")
		count, err := strconv.Atoi(countStr)
		if err != nil || count < 0 {
			return job, fmt.Errorf("bad LPD file length %q", countStr)
		}

		var body []byte
		var truncated bool
		switch {
		case count == 0 && cmd == lpdData:
			// Length unknown: the file runs to the end of the connection.
			body = bytes.TrimSuffix(after, []byte{0})
			after = nil
		case count > len(after):
			body = after
			after = nil
			truncated = true
		default:
			body = after[:count]
			after = after[count:]
			if len(after) > 0 && after[0] == 0 {
				after = after[1:]
			}
		}

		f := LPDFile{Name: name, Data: body}
		if cmd == lpdControl {
			job.Control = append(job.Control, f)
		} else {
			job.DataFiles = append(job.DataFiles, f)
		}
		if truncated {
			return job, fmt.Errorf("LPD file %s truncated: %d of %d bytes", name, len(body), count)
		}
		rest = after
	}
	return job, nil
}

func cutLine(b []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return nil, nil, false
	}
	return b[:i], b[i+1:], true
}
