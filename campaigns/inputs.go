package campaigns

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Input names recognised by the step.
const (
	InputFields           = "fields"
	InputExcludeFields    = "exclude_fields"
	InputType             = "type"
	InputStatus           = "status"
	InputBeforeSendTime   = "before_send_time"
	InputBeforeCreateTime = "before_create_time"
	InputCount            = "count"
)

var (
	errNotStringList = errors.New("must be a list of strings")
	errNotString     = errors.New("must be a string")
	errNotInteger    = errors.New("must be an integer")
)

func inputError(field string, err error) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf("[%s] %s", field, err)}
}

// StepInputs holds the typed step inputs. Nil slices and pointers mean the
// input was not supplied.
type StepInputs struct {
	Fields           []string
	ExcludeFields    []string
	Type             []string
	Status           []string
	BeforeSendTime   *string
	BeforeCreateTime *string
	Count            *int
}

// ParseInputs coerces raw host values into StepInputs. Unrecognised keys are ignored.
// Every malformed input is reported, not just the first.
func ParseInputs(raw map[string]interface{}) (StepInputs, error) {
	var result StepInputs
	var errs []error

	arrays := []struct {
		key    string
		target *[]string
	}{
		{InputFields, &result.Fields},
		{InputExcludeFields, &result.ExcludeFields},
		{InputType, &result.Type},
		{InputStatus, &result.Status},
	}
	for _, a := range arrays {
		values, err := stringArray(raw[a.key])
		if err != nil {
			errs = append(errs, inputError(a.key, err))
			continue
		}
		*a.target = values
	}

	strs := []struct {
		key    string
		target **string
	}{
		{InputBeforeSendTime, &result.BeforeSendTime},
		{InputBeforeCreateTime, &result.BeforeCreateTime},
	}
	for _, s := range strs {
		value, err := scalarString(raw[s.key])
		if err != nil {
			errs = append(errs, inputError(s.key, err))
			continue
		}
		*s.target = value
	}

	count, err := integer(raw[InputCount])
	if err != nil {
		errs = append(errs, inputError(InputCount, err))
	} else {
		result.Count = count
	}

	return result, validationErrors(errs...)
}

// stringArray accepts a single string or a list of strings.
// Empty strings and empty lists are treated as absent.
func stringArray(v interface{}) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if t == "" {
			return nil, nil
		}
		return []string{t}, nil
	case []string:
		if len(t) == 0 {
			return nil, nil
		}
		return append([]string(nil), t...), nil
	case []interface{}:
		if len(t) == 0 {
			return nil, nil
		}
		result := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, errNotStringList
			}
			result = append(result, s)
		}
		return result, nil
	default:
		return nil, errNotStringList
	}
}

// first unwraps host collections, which deliver scalars as single element lists.
func first(v interface{}) interface{} {
	switch t := v.(type) {
	case []interface{}:
		if len(t) == 0 {
			return nil
		}
		return t[0]
	case []string:
		if len(t) == 0 {
			return nil
		}
		return t[0]
	}
	return v
}

func scalarString(v interface{}) (*string, error) {
	switch t := first(v).(type) {
	case nil:
		return nil, nil
	case string:
		if t == "" {
			return nil, nil
		}
		return &t, nil
	default:
		return nil, errNotString
	}
}

func integer(v interface{}) (*int, error) {
	var n int
	switch t := first(v).(type) {
	case nil:
		return nil, nil
	case json.Number:
		i, err := strconv.Atoi(t.String())
		if err != nil {
			return nil, errNotInteger
		}
		n = i
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil, errNotInteger
		}
		n = i
	default:
		i, ok := numeric(reflect.ValueOf(t))
		if !ok {
			return nil, errNotInteger
		}
		n = i
	}
	return &n, nil
}

// numeric converts any integer or whole float kind to int, rejecting values
// that int cannot hold.
func numeric(rv reflect.Value) (int, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < math.MinInt || i > math.MaxInt {
			return 0, false
		}
		return int(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, false
		}
		return int(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		// NaN fails every comparison, so it falls through to the rejection.
		if f != math.Trunc(f) || !(f >= math.MinInt && f < -float64(math.MinInt)) {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}
