package strata

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Conversion helpers shared by every typed getter. The rules are
// deliberately loose: configuration values frequently arrive as strings
// regardless of their logical type.

func toString(key string, value interface{}) (string, error) {
	result, err := cast.ToStringE(value)
	if err != nil {
		return "", &ConversionError{Key: key, Value: value, Target: "string", Err: err}
	}
	return result, nil
}

func toInt(key string, value interface{}) (int, error) {
	result, err := cast.ToIntE(trimmed(value))
	if err != nil {
		return 0, &ConversionError{Key: key, Value: value, Target: "int", Err: err}
	}
	return result, nil
}

func toInt64(key string, value interface{}) (int64, error) {
	result, err := cast.ToInt64E(trimmed(value))
	if err != nil {
		return 0, &ConversionError{Key: key, Value: value, Target: "int64", Err: err}
	}
	return result, nil
}

func toFloat64(key string, value interface{}) (float64, error) {
	result, err := cast.ToFloat64E(trimmed(value))
	if err != nil {
		return 0, &ConversionError{Key: key, Value: value, Target: "float64", Err: err}
	}
	return result, nil
}

func toBool(key string, value interface{}) (bool, error) {
	if str, ok := value.(string); ok {
		switch strings.ToLower(strings.TrimSpace(str)) {
		case "true", "1", "yes", "on", "enable", "enabled":
			return true, nil
		case "false", "0", "no", "off", "disable", "disabled":
			return false, nil
		}
		return false, &ConversionError{Key: key, Value: value, Target: "bool"}
	}

	result, err := cast.ToBoolE(value)
	if err != nil {
		return false, &ConversionError{Key: key, Value: value, Target: "bool", Err: err}
	}
	return result, nil
}

// toDuration parses strings with time.ParseDuration and treats bare
// numbers as seconds, which is what configuration files usually mean.
func toDuration(key string, value interface{}) (time.Duration, error) {
	switch v := value.(type) {
	case time.Duration:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if d, err := time.ParseDuration(s); err == nil {
			return d, nil
		}
		if secs, err := cast.ToFloat64E(s); err == nil {
			return time.Duration(secs * float64(time.Second)), nil
		}
		return 0, &ConversionError{Key: key, Value: value, Target: "duration"}
	}

	secs, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, &ConversionError{Key: key, Value: value, Target: "duration", Err: err}
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func toTime(key string, value interface{}) (time.Time, error) {
	result, err := cast.ToTimeE(trimmed(value))
	if err != nil {
		return time.Time{}, &ConversionError{Key: key, Value: value, Target: "time", Err: err}
	}
	return result, nil
}

func toStringSlice(key string, value interface{}, delimiter string) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			str, err := toString(key, item)
			if err != nil {
				return nil, err
			}
			result = append(result, str)
		}
		return result, nil
	case string:
		if delimiter != "" && strings.Contains(v, delimiter) {
			return splitList(v, delimiter), nil
		}
		return []string{v}, nil
	}

	str, err := toString(key, value)
	if err != nil {
		return nil, &ConversionError{Key: key, Value: value, Target: "[]string", Err: err}
	}
	return []string{str}, nil
}

func toIntSlice(key string, value interface{}, delimiter string) ([]int, error) {
	strs, err := toStringSliceLoose(key, value, delimiter)
	if err != nil {
		return nil, err
	}

	result := make([]int, 0, len(strs))
	for _, item := range strs {
		n, err := toInt(key, item)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

// toStringSliceLoose keeps non-string elements untouched so numeric slices
// convert without a round trip through strings.
func toStringSliceLoose(key string, value interface{}, delimiter string) ([]interface{}, error) {
	switch v := value.(type) {
	case []interface{}:
		return v, nil
	case []string:
		result := make([]interface{}, len(v))
		for i, s := range v {
			result[i] = s
		}
		return result, nil
	case string:
		if delimiter != "" && strings.Contains(v, delimiter) {
			parts := splitList(v, delimiter)
			result := make([]interface{}, len(parts))
			for i, s := range parts {
				result[i] = s
			}
			return result, nil
		}
	}
	return []interface{}{value}, nil
}

func toStringMap(key string, value interface{}) (map[string]string, error) {
	switch v := value.(type) {
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		result := make(map[string]string, len(v))
		for k, item := range v {
			str, err := toString(key, item)
			if err != nil {
				return nil, err
			}
			result[k] = str
		}
		return result, nil
	}
	return nil, &ConversionError{Key: key, Value: value, Target: "map[string]string", Err: fmt.Errorf("unsupported type %T", value)}
}

func trimmed(value interface{}) interface{} {
	if str, ok := value.(string); ok {
		return strings.TrimSpace(str)
	}
	return value
}

// splitList splits a delimited string, trimming whitespace around each
// element and honoring a backslash escape of the delimiter. An empty
// delimiter means splitting is disabled and the value passes through whole.
func splitList(value, delimiter string) []string {
	if delimiter == "" {
		return []string{value}
	}

	var result []string
	var current strings.Builder
	escaped := false

	for i := 0; i < len(value); i++ {
		ch := value[i]
		if escaped {
			current.WriteByte(ch)
			escaped = false
			continue
		}
		if ch == '\\' && i+1 < len(value) && strings.HasPrefix(value[i+1:], delimiter) {
			escaped = true
			continue
		}
		if strings.HasPrefix(value[i:], delimiter) {
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
			i += len(delimiter) - 1
			continue
		}
		current.WriteByte(ch)
	}
	result = append(result, strings.TrimSpace(current.String()))

	return result
}
