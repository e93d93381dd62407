package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spencer-p/navo/pkg/stations"
)

const header = `# Water level stations known to navo. Order matters: when two names score the
# same for a spoken query, the one listed first wins.`

// merge appends the imported stations whose ids base lacks. Base entries keep
// their order and win over imported ones.
func merge(base, imported []stations.Station) ([]stations.Station, int) {
	seen := make(map[string]bool, len(base)+len(imported))
	result := make([]stations.Station, 0, len(base)+len(imported))
	for _, st := range base {
		seen[st.ID] = true
		result = append(result, st)
	}

	added := 0
	for _, st := range imported {
		if seen[st.ID] {
			continue
		}
		seen[st.ID] = true
		result = append(result, st)
		added++
	}
	return result, added
}

// inStates keeps stations whose name ends in one of the state codes. No
// codes keeps everything.
func inStates(list []stations.Station, codes []string) []stations.Station {
	if len(codes) == 0 {
		return list
	}
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[strings.ToUpper(strings.TrimSpace(c))] = true
	}

	var result []stations.Station
	for _, st := range list {
		i := strings.LastIndex(st.Name, ",")
		if i >= 0 && want[strings.TrimSpace(st.Name[i+1:])] {
			result = append(result, st)
		}
	}
	return result
}

// encode writes list as a station directory, one flow mapping per station,
// the same shape as the embedded stations.yaml.
func encode(w io.Writer, list []stations.Station) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for i := range list {
		item := new(yaml.Node)
		if err := item.Encode(&list[i]); err != nil {
			return fmt.Errorf("encode station %s: %w", list[i].ID, err)
		}
		item.Style = yaml.FlowStyle
		seq.Content = append(seq.Content, item)
	}
	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "stations", HeadComment: header},
			seq,
		},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write directory: %w", err)
	}
	return enc.Close()
}

// render encodes list and checks that the result loads as a directory.
func render(list []stations.Station) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, list); err != nil {
		return nil, err
	}
	if _, err := stations.Load(bytes.NewReader(buf.Bytes())); err != nil {
		return nil, fmt.Errorf("generated directory does not load: %w", err)
	}
	return buf.Bytes(), nil
}
