package magento

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/erp/magento-sync/internal/domain/magento"
)

// The Magento v1 sales API speaks XML-RPC. Only the value types that API
// actually emits are supported: string, int, double, boolean, struct and
// array.

type methodCall struct {
	XMLName    xml.Name   `xml:"methodCall"`
	MethodName string     `xml:"methodName"`
	Params     []callParam `xml:"params>param"`
}

type callParam struct {
	Value xmlValue `xml:"value"`
}

type methodResponse struct {
	XMLName xml.Name    `xml:"methodResponse"`
	Params  []callParam `xml:"params>param"`
	Fault   *faultBody  `xml:"fault"`
}

type faultBody struct {
	Value xmlValue `xml:"value"`
}

type xmlValue struct {
	String  *string      `xml:"string"`
	Int     *string      `xml:"int"`
	I4      *string      `xml:"i4"`
	Double  *string      `xml:"double"`
	Boolean *string      `xml:"boolean"`
	Struct  *xmlStruct   `xml:"struct"`
	Array   *xmlArray    `xml:"array"`
	Nil     *struct{}    `xml:"nil"`
	Raw     string       `xml:",chardata"`
}

type xmlStruct struct {
	Members []xmlMember `xml:"member"`
}

type xmlMember struct {
	Name  string   `xml:"name"`
	Value xmlValue `xml:"value"`
}

type xmlArray struct {
	Values []xmlValue `xml:"data>value"`
}

// encodeValue converts a Go value into its XML-RPC representation
func encodeValue(v interface{}) (xmlValue, error) {
	switch t := v.(type) {
	case nil:
		return xmlValue{Nil: &struct{}{}}, nil
	case string:
		return xmlValue{String: &t}, nil
	case bool:
		b := "0"
		if t {
			b = "1"
		}
		return xmlValue{Boolean: &b}, nil
	case int:
		s := strconv.Itoa(t)
		return xmlValue{Int: &s}, nil
	case int64:
		s := strconv.FormatInt(t, 10)
		return xmlValue{Int: &s}, nil
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		return xmlValue{Double: &s}, nil
	case []interface{}:
		arr := &xmlArray{Values: make([]xmlValue, 0, len(t))}
		for _, el := range t {
			ev, err := encodeValue(el)
			if err != nil {
				return xmlValue{}, err
			}
			arr.Values = append(arr.Values, ev)
		}
		return xmlValue{Array: arr}, nil
	case map[string]interface{}:
		st := &xmlStruct{Members: make([]xmlMember, 0, len(t))}
		for name, el := range t {
			ev, err := encodeValue(el)
			if err != nil {
				return xmlValue{}, err
			}
			st.Members = append(st.Members, xmlMember{Name: name, Value: ev})
		}
		return xmlValue{Struct: st}, nil
	default:
		return xmlValue{}, fmt.Errorf("xmlrpc: unsupported value type %T", v)
	}
}

// decodeValue converts an XML-RPC value into a Go value. Untyped scalar
// values default to string, per the XML-RPC spec.
func decodeValue(v xmlValue) interface{} {
	switch {
	case v.Nil != nil:
		return nil
	case v.String != nil:
		return *v.String
	case v.Int != nil:
		return parseWireInt(*v.Int)
	case v.I4 != nil:
		return parseWireInt(*v.I4)
	case v.Double != nil:
		f, _ := strconv.ParseFloat(strings.TrimSpace(*v.Double), 64)
		return f
	case v.Boolean != nil:
		return strings.TrimSpace(*v.Boolean) == "1"
	case v.Struct != nil:
		m := make(map[string]interface{}, len(v.Struct.Members))
		for _, member := range v.Struct.Members {
			m[member.Name] = decodeValue(member.Value)
		}
		return m
	case v.Array != nil:
		arr := make([]interface{}, 0, len(v.Array.Values))
		for _, el := range v.Array.Values {
			arr = append(arr, decodeValue(el))
		}
		return arr
	default:
		return v.Raw
	}
}

func parseWireInt(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

// marshalCall serializes one XML-RPC method call
func marshalCall(method string, args []interface{}) ([]byte, error) {
	call := methodCall{MethodName: method, Params: make([]callParam, 0, len(args))}
	for _, arg := range args {
		v, err := encodeValue(arg)
		if err != nil {
			return nil, err
		}
		call.Params = append(call.Params, callParam{Value: v})
	}

	body, err := xml.Marshal(call)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// unmarshalResponse parses an XML-RPC response body. Fault responses are
// returned as *magento.Fault so callers can match on the numeric code.
func unmarshalResponse(body []byte) (interface{}, error) {
	var resp methodResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("xmlrpc: malformed response: %w", err)
	}

	if resp.Fault != nil {
		return nil, decodeFault(resp.Fault.Value)
	}
	if len(resp.Params) == 0 {
		return nil, nil
	}
	return decodeValue(resp.Params[0].Value), nil
}

func decodeFault(v xmlValue) error {
	decoded, ok := decodeValue(v).(map[string]interface{})
	if !ok {
		return magento.NewFault(0, "malformed fault response")
	}

	code := 0
	if c, ok := decoded["faultCode"]; ok {
		switch t := c.(type) {
		case int64:
			code = int(t)
		case string:
			code = int(parseWireInt(t))
		}
	}
	message, _ := decoded["faultString"].(string)
	return magento.NewFault(code, message)
}
