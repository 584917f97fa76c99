package dist

import (
	"bytes"
	"encoding/csv"

	"gopkg.in/ini.v1"
)

// parseRecord extracts the path column from a RECORD file. RECORD is
// CSV with one "path,hash,size" row per installed file; hash and size
// may be empty and paths containing commas are quoted.
func parseRecord(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		paths = append(paths, row[0])
	}
	return paths, nil
}

// parseEntryPoints parses entry_points.txt, which is INI with one
// section per group and one "name = module:attr" key per entry. Returns
// nil when nothing parses.
func parseEntryPoints(data []byte) map[string][]string {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil
	}
	groups := make(map[string][]string)
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		for _, key := range section.Keys() {
			groups[section.Name()] = append(groups[section.Name()], key.Name()+" = "+key.Value())
		}
	}
	if len(groups) == 0 {
		return nil
	}
	return groups
}
