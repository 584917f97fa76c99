package cli

import (
	"encoding/json"
	"io"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/mindw/pipshow/pkg/inspect"
)

// reportEnvelope is the JSON document emitted by --json.
type reportEnvelope struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Packages    []inspect.Report `json:"packages"`
	Missing     []string         `json:"missing"`
}

// writeReportJSON materializes the report sequence into one uuid-stamped
// document and returns how many packages it holds. Packages and missing
// are always arrays, never null.
func writeReportJSON(w io.Writer, reports iter.Seq[inspect.Report], missing []string) (int, error) {
	env := reportEnvelope{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Packages:    []inspect.Report{},
		Missing:     missing,
	}
	for r := range reports {
		env.Packages = append(env.Packages, r)
	}
	if env.Missing == nil {
		env.Missing = []string{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return 0, err
	}
	return len(env.Packages), nil
}
