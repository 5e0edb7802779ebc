package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Canonical encoding shared by every node: object keys sorted, ", " and ": " separators,
// everything outside printable ASCII escaped as \uXXXX (surrogate pairs above the BMP).
// Numbers are written from their json literal, so a value hashes the same before and after a
// trip through the wire. Floats use the shortest repr, always with a fraction or exponent.
func CanonicalJSON(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := writeCanonical(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v interface{}) error {
	switch o := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if o {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		writeCanonicalString(buf, o)
	case json.Number:
		return writeCanonicalNumber(buf, o.String())
	case int:
		buf.WriteString(strconv.FormatInt(int64(o), 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(o), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(o, 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(o, 10))
	case float64:
		// Same literal encoding/json puts on the wire.
		literal, err := json.Marshal(o)
		if err != nil {
			return err
		}
		return writeCanonicalNumber(buf, string(literal))
	case map[string]interface{}:
		return writeCanonicalObject(buf, o)
	case []interface{}:
		buf.WriteByte('[')
		for i, child := range o {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := writeCanonical(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		// Anything else goes through its json form.
		raw, err := json.Marshal(o)
		if err != nil {
			return err
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var generic interface{}
		if err := dec.Decode(&generic); err != nil {
			return err
		}
		return writeCanonical(buf, generic)
	}
	return nil
}

func writeCanonicalObject(buf *bytes.Buffer, obj map[string]interface{}) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	// Byte order of utf-8 is code point order.
	sort.Strings(keys)
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		writeCanonicalString(buf, k)
		buf.WriteString(": ")
		if err := writeCanonical(buf, obj[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeCanonicalString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				buf.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(buf, `\u%04x\u%04x`, hi, lo)
			default:
				fmt.Fprintf(buf, `\u%04x`, r)
			}
		}
	}
	buf.WriteByte('"')
}

// Integer literals are kept digit for digit, any other literal is a float.
func writeCanonicalNumber(buf *bytes.Buffer, literal string) error {
	if !strings.ContainsAny(literal, ".eE") {
		if _, ok := new(big.Int).SetString(literal, 10); !ok {
			return fmt.Errorf("invalid number literal %q", literal)
		}
		buf.WriteString(literal)
		return nil
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return fmt.Errorf("invalid number literal %q: %w", literal, err)
	}
	s, err := floatRepr(f)
	if err != nil {
		return err
	}
	buf.WriteString(s)
	return nil
}

// Shortest round trip repr, fixed notation for decimal exponents in [-4, 16).
func floatRepr(f float64) (string, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("unsupported float %v", f)
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0", nil
		}
		return "0.0", nil
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil {
		return "", err
	}
	if exp < -4 || exp >= 16 {
		return sci, nil
	}
	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed, nil
}
