package trainparams

import (
	"bytes"
	"encoding/json"
)

const groupKMeans = "K-Means"

// NInit is scikit-learn's n_init: the string "auto" or a positive run count.
type NInit struct {
	Auto bool
	Runs int
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NInit) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte(`"auto"`)) {
		*n = NInit{Auto: true}
		return nil
	}
	var runs int
	if err := json.Unmarshal(data, &runs); err != nil {
		return &FieldError{Field: "n_init", Msg: `must be "auto" or an integer`}
	}
	if runs < 1 {
		return &FieldError{Field: "n_init", Msg: "must be at least 1"}
	}
	*n = NInit{Runs: runs}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NInit) MarshalJSON() ([]byte, error) {
	if n.Auto {
		return []byte(`"auto"`), nil
	}
	return json.Marshal(n.Runs)
}

// KMeans lists the clustering keys the training endpoint accepts.
// Absent keys keep the backend's defaults.
type KMeans struct {
	NClusters   *int     `json:"n_clusters,omitempty" validate:"omitnil,min=1,max=1000"`
	NInit       *NInit   `json:"n_init,omitempty"`
	MaxIter     *int     `json:"max_iter,omitempty" validate:"omitnil,min=1,max=100000"`
	Init        *string  `json:"init,omitempty" validate:"omitnil,oneof=k-means++ random"`
	Tol         *float64 `json:"tol,omitempty" validate:"omitnil,gt=0"`
	Algorithm   *string  `json:"algorithm,omitempty" validate:"omitnil,oneof=lloyd elkan"`
	RandomState *int     `json:"random_state,omitempty" validate:"omitnil,min=0"`
}

// ParseKMeans decodes and bounds-checks K-Means parameter text.
func ParseKMeans(text string) (*KMeans, error) {
	var k KMeans
	if err := decodeStrict(groupKMeans, text, &k); err != nil {
		return nil, err
	}
	if err := checkStruct(groupKMeans, &k); err != nil {
		return nil, err
	}
	return &k, nil
}

// JSON returns the canonical compact encoding sent as kmeans_params_str.
func (k *KMeans) JSON() (string, error) {
	return canonical(k)
}
