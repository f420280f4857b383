package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LenientInt decodes integers sent either as JSON numbers or as numeric
// strings ("3"). Fractions are truncated. Anything else decodes as 0
// instead of failing the request.
type LenientInt int

func (n *LenientInt) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = LenientInt(math.Trunc(f))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if v, err := strconv.Atoi(s); err == nil {
			*n = LenientInt(v)
			return nil
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			*n = LenientInt(math.Trunc(v))
			return nil
		}
	}

	*n = 0
	return nil
}

// Int returns n as a plain int.
func (n LenientInt) Int() int { return int(n) }

// LenientString decodes a JSON string as is and a JSON number as its
// literal text (1712000000001 becomes "1712000000001"). Anything else
// decodes as "".
type LenientString string

func (s *LenientString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = LenientString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = LenientString(num.String())
		return nil
	}

	*s = ""
	return nil
}
