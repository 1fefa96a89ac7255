package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/magpend/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
	Forces [][]float64 `json:"forces"`
}

// ExportJSON writes metadata together with the full trajectory.
func ExportJSON(w io.Writer, meta RunMetadata, result *dynamo.Result) error {
	data := ExportData{
		RunMetadata: meta,
		Times:       result.Times,
		States:      make([][]float64, len(result.States)),
		Forces:      make([][]float64, len(result.Controls)),
	}
	if data.Metrics == nil {
		data.Metrics = result.Metrics
	}

	for i, s := range result.States {
		data.States[i] = s
	}
	for i, c := range result.Controls {
		data.Forces[i] = c
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteCSV writes one row per recorded state using Columns. Row i carries the
// force applied during the frame that starts at that state.
func WriteCSV(w io.Writer, result *dynamo.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}

	for i, x := range result.States {
		row := make([]string, 0, len(Columns))
		row = append(row, formatFloat(result.Times[i]))

		for j := 0; j < 6; j++ {
			v := 0.0
			if j < len(x) {
				v = x[j]
			}
			row = append(row, formatFloat(v))
		}

		for j := 0; j < 3; j++ {
			v := 0.0
			if i < len(result.Controls) && j < len(result.Controls[i]) {
				v = result.Controls[i][j]
			}
			row = append(row, formatFloat(v))
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
