package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// jsonPrice encodes NaN and the infinities as strings, which plain JSON numbers
// cannot represent. Finite values stay numbers.
type jsonPrice float64

const (
	priceNaN    = "NaN"
	pricePosInf = "+Inf"
	priceNegInf = "-Inf"
)

func (p jsonPrice) MarshalJSON() ([]byte, error) {
	f := float64(p)
	switch {
	case math.IsNaN(f):
		return json.Marshal(priceNaN)
	case math.IsInf(f, 1):
		return json.Marshal(pricePosInf)
	case math.IsInf(f, -1):
		return json.Marshal(priceNegInf)
	}
	return json.Marshal(f)
}

func (p *jsonPrice) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || b[0] != '"' {
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
		*p = jsonPrice(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case priceNaN:
		*p = jsonPrice(math.NaN())
	case pricePosInf, "Infinity":
		*p = jsonPrice(math.Inf(1))
	case priceNegInf, "-Infinity":
		*p = jsonPrice(math.Inf(-1))
	default:
		return fmt.Errorf("invalid price %q", s)
	}
	return nil
}

func (i Item) MarshalJSON() ([]byte, error) {
	type alias Item
	return json.Marshal(struct {
		alias
		Price jsonPrice `json:"price"`
	}{alias(i), jsonPrice(i.Price)})
}

func (i *Item) UnmarshalJSON(b []byte) error {
	type alias Item
	var aux struct {
		alias
		Price jsonPrice `json:"price"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*i = Item(aux.alias)
	i.Price = float64(aux.Price)
	return nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	type alias Payload
	return json.Marshal(struct {
		alias
		Price jsonPrice `json:"price"`
	}{alias(p), jsonPrice(p.Price)})
}

func (p *Payload) UnmarshalJSON(b []byte) error {
	type alias Payload
	var aux struct {
		alias
		Price jsonPrice `json:"price"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Payload(aux.alias)
	p.Price = float64(aux.Price)
	return nil
}
