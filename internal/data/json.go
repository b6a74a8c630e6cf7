package data

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"srl-backtest/internal/model"
)

// LoadInputsJSON reads a `{"load": [...], "balancing": [...]}` document.
func LoadInputsJSON(path string) (model.SimulationInputs, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.SimulationInputs{}, err
	}
	defer f.Close()
	in, err := DecodeInputs(f)
	if err != nil {
		return model.SimulationInputs{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

func DecodeInputs(r io.Reader) (model.SimulationInputs, error) {
	var in model.SimulationInputs
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return model.SimulationInputs{}, err
	}
	return in, nil
}
