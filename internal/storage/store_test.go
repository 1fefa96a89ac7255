package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/stretchr/testify/require"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		States: []dynamo.State{
			{0.1, 0, 0, 0, 0, 0},
			{0.09, -0.001, 0, -0.1, -0.01, 0},
		},
		Controls:   []dynamo.Control{{0, 0.07, 0}},
		Times:      []float64{0, 0.01},
		StepsTaken: 1,
		Metrics:    map[string]float64{"energy": 1.5},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{
		Preset:     "classic",
		Dt:         0.01,
		Duration:   0.01,
		Integrator: "rk4",
		Law:        "literal",
		Negate:     true,
		Remanence:  1.2,
	}, sampleResult())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(runID, "classic_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	require.Equal(t, runID, meta.ID)
	require.Equal(t, "literal", meta.Law)
	require.True(t, meta.Negate)
	require.Equal(t, 1, meta.Steps)
	require.Equal(t, 1.5, meta.Metrics["energy"])

	states, forces, times, err := st.LoadStates(runID)
	require.NoError(t, err)
	require.Len(t, states, 2)
	require.Len(t, forces, 2)
	require.Equal(t, []float64{0, 0.01}, times)
	require.Equal(t, dynamo.State{0.09, -0.001, 0, -0.1, -0.01, 0}, states[1])
	require.Equal(t, dynamo.Control{0, 0.07, 0}, forces[0])
	require.Equal(t, dynamo.Control{0, 0, 0}, forces[1])
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)

	_, err = st.Save(RunMetadata{Integrator: "rk4"}, sampleResult())
	require.NoError(t, err)
	_, err = st.Save(RunMetadata{Integrator: "euler"}, sampleResult())
	require.NoError(t, err)

	// stray entries are skipped
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "rk4", runs[0].Integrator)
	require.Equal(t, "euler", runs[1].Integrator)
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("nope")
	require.ErrorIs(t, err, ErrRunNotFound)

	_, _, _, err = st.LoadStates("nope")
	require.ErrorIs(t, err, ErrRunNotFound)

	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{}, sampleResult())
	require.NoError(t, err)

	runDir := filepath.Join(dir, runID)
	require.FileExists(t, filepath.Join(runDir, "metadata.json"))
	require.FileExists(t, filepath.Join(runDir, "states.csv"))

	data, err := os.ReadFile(filepath.Join(runDir, "states.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "time,x,y,z,vx,vy,vz,fx,fy,fz", lines[0])
}

func TestLoadStatesRejectsShortRows(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{}, sampleResult())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, runID), st.RunDir(runID))

	path := filepath.Join(st.RunDir(runID), "states.csv")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("0.03,1,2,3\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, _, _, err = st.LoadStates(runID)
	require.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
	require.ErrorContains(t, err, "line 4")
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{ID: "run_1", Law: "dipole"}
	require.NoError(t, ExportJSON(&buf, meta, sampleResult()))

	var out ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, "run_1", out.ID)
	require.Equal(t, "dipole", out.Law)
	require.Len(t, out.States, 2)
	require.Len(t, out.Forces, 1)
	require.Equal(t, 1.5, out.Metrics["energy"])
}
