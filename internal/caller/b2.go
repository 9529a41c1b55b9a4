package caller

import "encoding/json"

// MarshalRequest encodes a control-plane request body.
func MarshalRequest(req interface{}) ([]byte, error) {
	msg, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return msg, nil
}
