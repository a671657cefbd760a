package dto

import "encoding/json"

// OptionalNumber distinguishes an absent JSON field from an explicit null.
// The marks total is derived when T is absent, but an explicit null clears it.
type OptionalNumber struct {
	Defined bool
	Value   *float64
}

// UnmarshalJSON records that the field was present, even when null.
func (o *OptionalNumber) UnmarshalJSON(data []byte) error {
	o.Defined = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	o.Value = &f
	return nil
}

// MarshalJSON emits the wrapped value, or null when unset.
func (o OptionalNumber) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
