package stats

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Stats holds the eight line metrics extracted from the diagnostics page.
type Stats struct {
	UpRate          float64 `json:"up_rate"`
	DownRate        float64 `json:"down_rate"`
	UpPower         float64 `json:"up_power"`
	DownPower       float64 `json:"down_power"`
	UpAttenuation   float64 `json:"up_attenuation"`
	DownAttenuation float64 `json:"down_attenuation"`
	UpNoiseMargin   float64 `json:"up_noisemargin"`
	DownNoiseMargin float64 `json:"down_noisemargin"`
}

// Plain renders the stats as one "key value" line per metric, in a fixed
// order.
func (s *Stats) Plain() string {
	fields := []struct {
		name  string
		value float64
	}{
		{"up_rate", s.UpRate},
		{"down_rate", s.DownRate},
		{"up_power", s.UpPower},
		{"down_power", s.DownPower},
		{"up_attenuation", s.UpAttenuation},
		{"down_attenuation", s.DownAttenuation},
		{"up_noisemargin", s.UpNoiseMargin},
		{"down_noisemargin", s.DownNoiseMargin},
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.name)
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(f.value, 'g', -1, 64))
	}
	return b.String()
}

// JSON renders the stats as an indented JSON object.
func (s *Stats) JSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to format stats as JSON: %w", err)
	}
	return string(data), nil
}
