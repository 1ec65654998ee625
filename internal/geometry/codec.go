package geometry

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// settingsWire is the persisted shape of Settings. Absent fields encode as
// null and decode from either null or a missing key.
type settingsWire struct {
	InnerPos        *[2]float32 `json:"inner_pos" yaml:"inner_pos"`
	InnerSizePoints *[2]float32 `json:"inner_size_points" yaml:"inner_size_points"`
}

func (s Settings) wire() settingsWire {
	var w settingsWire
	if s.innerPos != nil {
		w.InnerPos = &[2]float32{s.innerPos.X, s.innerPos.Y}
	}
	if s.innerSize != nil {
		w.InnerSizePoints = &[2]float32{s.innerSize.X, s.innerSize.Y}
	}
	return w
}

func (w settingsWire) settings() (Settings, error) {
	var s Settings
	if w.InnerPos != nil {
		if err := checkFinite("inner_pos", *w.InnerPos); err != nil {
			return Settings{}, err
		}
		s.innerPos = &Pos2{X: w.InnerPos[0], Y: w.InnerPos[1]}
	}
	if w.InnerSizePoints != nil {
		if err := checkFinite("inner_size_points", *w.InnerSizePoints); err != nil {
			return Settings{}, err
		}
		s.innerSize = &Vec2{X: w.InnerSizePoints[0], Y: w.InnerSizePoints[1]}
	}
	return s, nil
}

func checkFinite(field string, v [2]float32) error {
	for _, f := range v {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return fmt.Errorf("%s: non-finite value %v", field, f)
		}
	}
	return nil
}

func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire())
}

func (s *Settings) UnmarshalJSON(data []byte) error {
	var w settingsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := w.settings()
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

func (s Settings) MarshalYAML() (interface{}, error) {
	return s.wire(), nil
}

func (s *Settings) UnmarshalYAML(value *yaml.Node) error {
	var w settingsWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	decoded, err := w.settings()
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
