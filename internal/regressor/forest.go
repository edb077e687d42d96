package regressor

// Forest is an averaging ensemble of regression trees
type Forest struct {
	names []string
	trees []Tree
}

// Predict returns the mean of every tree's leaf value
func (f *Forest) Predict(features []float64) (float64, error) {
	if err := checkWidth(features, len(f.names)); err != nil {
		return 0, err
	}
	var sum float64
	for i := range f.trees {
		sum += f.trees[i].predict(features)
	}
	return sum / float64(len(f.trees)), nil
}

// FeatureNames returns the expected feature order
func (f *Forest) FeatureNames() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Type returns TypeRandomForest
func (f *Forest) Type() string { return TypeRandomForest }

// Trees returns the number of trees in the ensemble
func (f *Forest) Trees() int { return len(f.trees) }

func (t *Tree) predict(x []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != LeafMarker {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// Linear is intercept + coefficients·x
type Linear struct {
	names        []string
	intercept    float64
	coefficients []float64
}

// Predict evaluates the linear model
func (l *Linear) Predict(features []float64) (float64, error) {
	if err := checkWidth(features, len(l.names)); err != nil {
		return 0, err
	}
	y := l.intercept
	for i, c := range l.coefficients {
		y += c * features[i]
	}
	return y, nil
}

// FeatureNames returns the expected feature order
func (l *Linear) FeatureNames() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Type returns TypeLinear
func (l *Linear) Type() string { return TypeLinear }
