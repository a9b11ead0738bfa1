package scorecard

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
)

func Decode(document []byte) (*Scorecard, error) {
	var s Scorecard
	if err := sonic.Unmarshal(document, &s); err != nil {
		return nil, fmt.Errorf("decode scorecard: %w", err)
	}
	if s.Home == nil || s.Away == nil {
		return nil, fmt.Errorf("decode scorecard: missing team card")
	}
	return &s, nil
}

func (s *Scorecard) Encode() ([]byte, error) {
	out, err := sonic.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode scorecard: %w", err)
	}
	return out, nil
}
