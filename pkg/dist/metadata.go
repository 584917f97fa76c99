package dist

import (
	"bufio"
	"bytes"
	"net/textproto"
	"strings"
)

// Metadata is the parsed header block of a METADATA or PKG-INFO file.
// The format is a sequence of RFC 822 style "Field: value" headers
// terminated by a blank line; everything after the blank line is the
// long description and is not retained.
type Metadata struct {
	Name            string
	Version         string
	Summary         string
	HomePage        string
	Author          string
	AuthorEmail     string
	License         string
	MetadataVersion string
	Classifiers     []string // every Classifier header, in file order
	RequiresDist    []string // raw Requires-Dist values, in file order
	ProvidesExtra   []string // declared extra names, in file order
}

// ParseMetadata parses the header block of a METADATA or PKG-INFO file.
// A partial header is returned when the block is cut short, so a missing
// trailing blank line does not lose the fields above it.
func ParseMetadata(data []byte) *Metadata {
	r := textproto.NewReader(bufio.NewReader(bytes.NewReader(data)))
	header, _ := r.ReadMIMEHeader()
	return &Metadata{
		Name:            header.Get("Name"),
		Version:         header.Get("Version"),
		Summary:         header.Get("Summary"),
		HomePage:        header.Get("Home-Page"),
		Author:          header.Get("Author"),
		AuthorEmail:     header.Get("Author-Email"),
		License:         header.Get("License"),
		MetadataVersion: header.Get("Metadata-Version"),
		Classifiers:     scanClassifiers(data),
		RequiresDist:    header.Values("Requires-Dist"),
		ProvidesExtra:   header.Values("Provides-Extra"),
	}
}

// scanClassifiers collects the repeated Classifier headers by scanning
// raw lines, stopping at the blank line that ends the header block.
func scanClassifiers(data []byte) []string {
	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		if strings.HasPrefix(line, "Classifier: ") {
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "Classifier: ")))
		}
	}
	return out
}
