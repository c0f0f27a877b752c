package pcap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CollectPcapFiles returns sorted PCAP/PCAPNG files under the root directory.
func CollectPcapFiles(root string) ([]string, error) {
	var pcaps []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".pcap" || ext == ".pcapng" || ext == ".cap" {
			pcaps = append(pcaps, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk pcaps: %w", err)
	}
	sort.Strings(pcaps)
	return pcaps, nil
}

// WriteFlows writes each flow's print data to dir as <prefix><flow>.prn and
// returns the paths written, in flow order.
func WriteFlows(dir, prefix string, flows []*Flow) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(flows))
	seen := make(map[string]int)
	for _, f := range flows {
		name := prefix + f.Name()
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s.%d", name, n)
		}
		seen[prefix+f.Name()]++
		path := filepath.Join(dir, name+".prn")
		if err := os.WriteFile(path, f.Payload(), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
