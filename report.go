package ll5fit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arloliu/ll5fit/compress"
	"github.com/arloliu/ll5fit/dataset"
	"github.com/arloliu/ll5fit/format"
	"github.com/arloliu/ll5fit/internal/hash"
	"github.com/arloliu/ll5fit/ll5"
)

// Report is the serialisable summary of a fit.
type Report struct {
	Dataset     string             `json:"dataset,omitempty"`
	Fingerprint string             `json:"fingerprint"`
	Points      int                `json:"points"`
	Params      map[string]float64 `json:"params"`
	Fixed       []string           `json:"fixed"`
	Status      string             `json:"status"`
	Criterion   string             `json:"criterion"`
	Iterations  int                `json:"iterations"`
	Evaluations int                `json:"evaluations"`
	SSR         float64            `json:"ssr"`
	RMSE        float64            `json:"rmse"`
	RSquared    float64            `json:"r_squared"`
}

// NewReport summarises res. ds may be nil.
func NewReport(res *ll5.Result, ds *dataset.Dataset) Report {
	params := make(map[string]float64, ll5.NumParams)
	for i, v := range res.Params.Array() {
		params[ll5.ParamName(i)] = v
	}

	r := Report{
		Fingerprint: hash.String(res.Fingerprint),
		Points:      res.Points,
		Params:      params,
		Fixed:       res.Fixed(),
		Status:      res.Status.String(),
		Criterion:   res.Criterion.String(),
		Iterations:  res.Iterations,
		Evaluations: res.Evaluations,
		SSR:         res.SSR,
		RMSE:        res.RMSE,
		RSquared:    res.RSquared,
	}
	if ds != nil {
		r.Dataset = ds.Name
	}

	return r
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}

// WriteText writes a human-readable summary.
func (r Report) WriteText(w io.Writer) error {
	var sb strings.Builder
	if r.Dataset != "" {
		fmt.Fprintf(&sb, "dataset:     %s\n", r.Dataset)
	}
	fmt.Fprintf(&sb, "fingerprint: %s\n", r.Fingerprint)
	fmt.Fprintf(&sb, "points:      %d\n", r.Points)
	fmt.Fprintf(&sb, "status:      %s (%s) after %d iterations\n", r.Status, r.Criterion, r.Iterations)
	for i := 0; i < ll5.NumParams; i++ {
		name := ll5.ParamName(i)
		marker := ""
		for _, f := range r.Fixed {
			if f == name {
				marker = "  (fixed)"
			}
		}
		fmt.Fprintf(&sb, "%s = %.10g%s\n", name, r.Params[name], marker)
	}
	fmt.Fprintf(&sb, "SSR = %.6g  RMSE = %.6g  R² = %.6f\n", r.SSR, r.RMSE, r.RSquared)

	_, err := io.WriteString(w, sb.String())

	return err
}

// WriteFile writes the report as JSON to path, compressed according to its suffix
// (.zst, .sz/.s2, .lz4).
func (r Report) WriteFile(path string) error {
	return compress.WriteFile(path, r.WriteJSON)
}

// ReadReport reads a report written by WriteFile.
func ReadReport(path string) (Report, error) {
	var r Report

	data, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	codec, err := compress.GetCodec(format.CompressionFromPath(path))
	if err != nil {
		return r, err
	}
	plain, err := codec.Decompress(data)
	if err != nil {
		return r, fmt.Errorf("read report %s: %w", path, err)
	}
	if err := json.Unmarshal(plain, &r); err != nil {
		return r, fmt.Errorf("read report %s: %w", path, err)
	}

	return r, nil
}
