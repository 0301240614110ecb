package qneuro

import (
	"encoding/json"
	"os"
	"time"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// checkpoint is the serialized training state: weights of the online
// network plus the progress counters needed to resume the epsilon
// schedule. Files are snappy-compressed JSON.
type checkpoint struct {
	SavedAt    time.Time   `json:"saved_at"`
	EnvSteps   int         `json:"env_steps"`
	TrainSteps int         `json:"train_steps"`
	Epsilon    float64     `json:"epsilon"`
	Layers     []layerDump `json:"layers"`
}

type layerDump struct {
	Rows    int       `json:"rows"`
	Cols    int       `json:"cols"`
	Weights []float64 `json:"weights"`
	Bias    []float64 `json:"bias"`
}

// snapshotLocked dumps the weight layers; caller holds the lock.
func (n *Network) snapshotLocked() []layerDump {
	dump := func(w, b *mat.Dense) layerDump {
		rows, cols := w.Dims()
		return layerDump{
			Rows:    rows,
			Cols:    cols,
			Weights: append([]float64(nil), w.RawMatrix().Data...),
			Bias:    append([]float64(nil), b.RawMatrix().Data...),
		}
	}
	return []layerDump{
		dump(n.w1, n.b1),
		dump(n.w2, n.b2),
		dump(n.w3, n.b3),
	}
}

// restoreLocked loads dumped layers; caller holds the lock.
func (n *Network) restoreLocked(layers []layerDump) {
	targets := []struct{ w, b *mat.Dense }{
		{n.w1, n.b1},
		{n.w2, n.b2},
		{n.w3, n.b3},
	}
	for i, layer := range layers {
		targets[i].w.SetRawMatrix(mat.NewDense(layer.Rows, layer.Cols, append([]float64(nil), layer.Weights...)).RawMatrix())
		targets[i].b.SetRawMatrix(mat.NewDense(1, layer.Cols, append([]float64(nil), layer.Bias...)).RawMatrix())
	}
}

// SaveCheckpoint writes the current training state to path.
func (d *DQN) SaveCheckpoint(path string) error {
	d.online.mu.Lock()
	cp := checkpoint{
		SavedAt:    time.Now().UTC(),
		EnvSteps:   d.envSteps,
		TrainSteps: d.trainSteps,
		Epsilon:    d.Epsilon(),
		Layers:     d.online.snapshotLocked(),
	}
	d.online.mu.Unlock()

	data, err := json.Marshal(cp)
	if err != nil {
		return errors.Wrap(err, "encode checkpoint")
	}
	if err := os.WriteFile(path, snappy.Encode(nil, data), 0644); err != nil {
		return errors.Wrap(err, "write checkpoint")
	}
	return nil
}

// LoadCheckpoint restores the training state from path. Both the online
// and the target network take the stored weights.
func (d *DQN) LoadCheckpoint(path string) error {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read checkpoint")
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return errors.Wrap(err, "decompress checkpoint")
	}

	var cp checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return errors.Wrap(err, "parse checkpoint")
	}
	if len(cp.Layers) != 3 {
		return errors.Errorf("checkpoint has %d layers, want 3", len(cp.Layers))
	}

	d.online.mu.Lock()
	d.online.restoreLocked(cp.Layers)
	d.online.mu.Unlock()
	d.target.CopyFrom(d.online)

	d.envSteps = cp.EnvSteps
	d.trainSteps = cp.TrainSteps
	return nil
}
