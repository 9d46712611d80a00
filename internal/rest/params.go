package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
)

// Params is an ordered parameter bag for request bodies. GET requests
// serialize it as a query string, POST requests as a JSON object; both
// preserve insertion order.
type Params struct {
	pairs []pair
}

type pair struct {
	name  string
	value interface{}
}

// NewParams returns an empty parameter bag.
func NewParams() *Params {
	return &Params{}
}

// Set adds or replaces a parameter, keeping the position of an existing
// name. Returns the receiver for chaining.
func (p *Params) Set(name string, value interface{}) *Params {
	for i := range p.pairs {
		if p.pairs[i].name == name {
			p.pairs[i].value = value
			return p
		}
	}
	p.pairs = append(p.pairs, pair{name: name, value: value})
	return p
}

// Get returns the value for name, or nil if absent.
func (p *Params) Get(name string) interface{} {
	for _, kv := range p.pairs {
		if kv.name == name {
			return kv.value
		}
	}
	return nil
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.pairs)
}

// Encode serializes the parameters as a URL query string in insertion order.
func (p *Params) Encode() string {
	if p.Len() == 0 {
		return ""
	}
	var buf bytes.Buffer
	for i, kv := range p.pairs {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(kv.name))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(fmt.Sprint(kv.value)))
	}
	return buf.String()
}

// MarshalJSON serializes the parameters as a JSON object in insertion order.
func (p *Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range p.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(kv.name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(kv.value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
