package trainparams

import (
	"encoding/json"
)

const groupSVM = "SVM"

// Gamma is the RBF/poly/sigmoid kernel coefficient: "scale", "auto" or a positive number.
type Gamma struct {
	Mode  string
	Value float64
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Gamma) UnmarshalJSON(data []byte) error {
	var mode string
	if err := json.Unmarshal(data, &mode); err == nil {
		if mode != "scale" && mode != "auto" {
			return &FieldError{Field: "gamma", Msg: `must be "scale", "auto" or a positive number`}
		}
		*g = Gamma{Mode: mode}
		return nil
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil || value <= 0 {
		return &FieldError{Field: "gamma", Msg: `must be "scale", "auto" or a positive number`}
	}
	*g = Gamma{Value: value}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (g Gamma) MarshalJSON() ([]byte, error) {
	if g.Mode != "" {
		return json.Marshal(g.Mode)
	}
	return json.Marshal(g.Value)
}

// SVM lists the classifier keys the training endpoint accepts.
type SVM struct {
	C           *float64 `json:"C,omitempty" validate:"omitnil,gt=0"`
	Kernel      *string  `json:"kernel,omitempty" validate:"omitnil,oneof=linear poly rbf sigmoid"`
	Gamma       *Gamma   `json:"gamma,omitempty"`
	Degree      *int     `json:"degree,omitempty" validate:"omitnil,min=1,max=10"`
	Coef0       *float64 `json:"coef0,omitempty"`
	Probability *bool    `json:"probability,omitempty"`
	Shrinking   *bool    `json:"shrinking,omitempty"`
	Tol         *float64 `json:"tol,omitempty" validate:"omitnil,gt=0"`
	MaxIter     *int     `json:"max_iter,omitempty" validate:"omitnil,min=-1"`
	ClassWeight *string  `json:"class_weight,omitempty" validate:"omitnil,oneof=balanced"`
	RandomState *int     `json:"random_state,omitempty" validate:"omitnil,min=0"`
}

// ParseSVM decodes and bounds-checks SVM parameter text.
func ParseSVM(text string) (*SVM, error) {
	var s SVM
	if err := decodeStrict(groupSVM, text, &s); err != nil {
		return nil, err
	}
	if err := checkStruct(groupSVM, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// JSON returns the canonical compact encoding sent as svm_params_str.
func (s *SVM) JSON() (string, error) {
	return canonical(s)
}
