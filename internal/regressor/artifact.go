// Package regressor loads pre-trained premium regression artifacts and evaluates them.
//
// An artifact is a JSON document describing either a random forest (trees in the
// flattened children_left/children_right/feature/threshold/value layout) or a
// linear model. Artifacts are validated against an embedded JSON Schema and then
// checked structurally before use; a loaded Regressor is immutable.
package regressor

import (
	"encoding/json"
	"fmt"
	"os"
)

// Model types understood by Load
const (
	TypeRandomForest = "random_forest"
	TypeLinear       = "linear"
)

// Regressor predicts one value from a feature vector ordered as FeatureNames
type Regressor interface {
	Predict(features []float64) (float64, error)
	FeatureNames() []string
	Type() string
}

// Artifact is the serialized form of a regressor
type Artifact struct {
	ModelType    string    `json:"model_type"`
	Target       string    `json:"target,omitempty"`
	Version      int       `json:"version,omitempty"`
	FeatureNames []string  `json:"feature_names"`
	Trees        []Tree    `json:"trees,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
}

// Tree is one decision tree in parallel-array form. Node 0 is the root; a node
// whose ChildrenLeft entry is LeafMarker is a leaf.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

// LeafMarker marks a node without children
const LeafMarker = -1

// Load reads, validates and builds the regressor stored at path
func Load(path string) (Regressor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}
	return reg, nil
}

// Parse validates and builds a regressor from artifact JSON
func Parse(data []byte) (Regressor, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}

	return Build(&artifact)
}

// Build checks an already decoded artifact and returns its regressor
func Build(a *Artifact) (Regressor, error) {
	names := make([]string, len(a.FeatureNames))
	copy(names, a.FeatureNames)

	switch a.ModelType {
	case TypeRandomForest:
		if len(a.Trees) == 0 {
			return nil, fmt.Errorf("random forest has no trees")
		}
		for i := range a.Trees {
			if err := a.Trees[i].validate(len(names)); err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
		}
		trees := make([]Tree, len(a.Trees))
		copy(trees, a.Trees)
		return &Forest{names: names, trees: trees}, nil
	case TypeLinear:
		if len(a.Coefficients) != len(names) {
			return nil, fmt.Errorf("linear model has %d coefficients for %d features", len(a.Coefficients), len(names))
		}
		coef := make([]float64, len(a.Coefficients))
		copy(coef, a.Coefficients)
		return &Linear{names: names, intercept: a.Intercept, coefficients: coef}, nil
	default:
		return nil, fmt.Errorf("unsupported model_type %q", a.ModelType)
	}
}

func (t *Tree) validate(nFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == LeafMarker || right == LeafMarker {
			if left != right {
				return fmt.Errorf("node %d has exactly one child", i)
			}
			continue
		}
		// children always come after their parent, so walks terminate
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d has out-of-order children (%d, %d)", i, left, right)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d, model has %d", i, t.Feature[i], nFeatures)
		}
	}
	return nil
}

func checkWidth(features []float64, want int) error {
	if len(features) != want {
		return fmt.Errorf("expected %d features, got %d", want, len(features))
	}
	return nil
}
