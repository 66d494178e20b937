package control

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// ValueType tags the variant held by a Value.
type ValueType uint8

const (
	TypeNull ValueType = iota
	TypeString
	TypeNumber
	TypeBool
	TypeFile
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeFile:
		return "file"
	default:
		return "null"
	}
}

// File is an opaque handle to a user-selected file. Open is nil for handles
// that only carry metadata.
type File struct {
	Name string
	Size int64
	Type string
	Open func() (io.ReadCloser, error)
}

// Value is the normalised value held by a control. The zero Value is null.
type Value struct {
	typ  ValueType
	str  string
	num  float64
	flag bool
	file *File
}

func NullValue() Value { return Value{} }

func StringValue(s string) Value { return Value{typ: TypeString, str: s} }

func NumberValue(n float64) Value { return Value{typ: TypeNumber, num: n} }

func BoolValue(b bool) Value { return Value{typ: TypeBool, flag: b} }

func FileValue(f File) Value {
	handle := f
	return Value{typ: TypeFile, file: &handle}
}

// Type reports the held variant.
func (v Value) Type() ValueType { return v.typ }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.typ == TypeNull }

func (v Value) AsString() (string, bool) { return v.str, v.typ == TypeString }

func (v Value) AsNumber() (float64, bool) { return v.num, v.typ == TypeNumber }

func (v Value) AsBool() (bool, bool) { return v.flag, v.typ == TypeBool }

func (v Value) AsFile() (File, bool) {
	if v.typ != TypeFile || v.file == nil {
		return File{}, false
	}
	return *v.file, true
}

// Interface unwraps v into nil, string, float64, bool or File.
func (v Value) Interface() any {
	switch v.typ {
	case TypeString:
		return v.str
	case TypeNumber:
		return v.num
	case TypeBool:
		return v.flag
	case TypeFile:
		if v.file == nil {
			return nil
		}
		return *v.file
	default:
		return nil
	}
}

// Text renders v as it would appear inside a text box.
func (v Value) Text() string {
	switch v.typ {
	case TypeString:
		return v.str
	case TypeNumber:
		if math.IsNaN(v.num) {
			return ""
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.flag)
	case TypeFile:
		if v.file == nil {
			return ""
		}
		return v.file.Name
	default:
		return ""
	}
}

// Equal compares two values by variant and payload. File handles compare by
// metadata; NaN numbers are equal to each other.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeString:
		return v.str == other.str
	case TypeNumber:
		if math.IsNaN(v.num) && math.IsNaN(other.num) {
			return true
		}
		return v.num == other.num
	case TypeBool:
		return v.flag == other.flag
	case TypeFile:
		a, _ := v.AsFile()
		b, _ := other.AsFile()
		return a.Name == b.Name && a.Size == b.Size && a.Type == b.Type
	default:
		return true
	}
}

// Coerce converts a loosely typed value (decoded from YAML/JSON or supplied by
// a host) into the Value shape expected for kind.
func Coerce(kind Kind, raw any) Value {
	if raw == nil {
		return NullValue()
	}
	if v, ok := raw.(Value); ok {
		return v
	}
	switch kind {
	case KindCheckbox:
		switch typed := raw.(type) {
		case bool:
			return BoolValue(typed)
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
			return BoolValue(err == nil && parsed)
		default:
			return BoolValue(false)
		}
	case KindNumber:
		switch typed := raw.(type) {
		case float64:
			return NumberValue(typed)
		case float32:
			return NumberValue(float64(typed))
		case int:
			return NumberValue(float64(typed))
		case int64:
			return NumberValue(float64(typed))
		case string:
			return normalizeNumber(typed)
		default:
			return NullValue()
		}
	case KindFile:
		if f, ok := raw.(File); ok {
			return FileValue(f)
		}
		return NullValue()
	default:
		return StringValue(OptionString(raw))
	}
}
