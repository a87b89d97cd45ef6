package campaigns

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

var (
	// CampaignTypes are the accepted values of the type input.
	CampaignTypes = []string{"regular", "plaintext", "absplit", "rss", "variate"}
	// CampaignStatuses are the accepted values of the status input.
	CampaignStatuses = []string{"save", "paused", "schedule", "sending", "sent"}
)

// Query is the validated, serialised form of StepInputs.
// Array inputs are already trimmed and comma joined.
type Query struct {
	Fields           string
	ExcludeFields    string
	Type             string
	Status           string
	BeforeSendTime   string
	BeforeCreateTime string
	Count            *int
}

// BuildQuery checks the type and status enumerations, then trims and joins the array inputs.
// Type is checked before status and the first failure is returned.
func BuildQuery(in StepInputs) (Query, error) {
	var result Query

	if in.Type != nil {
		values, err := enumerated(InputType, in.Type, CampaignTypes)
		if err != nil {
			return result, err
		}
		result.Type = values
	}

	if in.Status != nil {
		values, err := enumerated(InputStatus, in.Status, CampaignStatuses)
		if err != nil {
			return result, err
		}
		result.Status = values
	}

	result.Fields = joinTrimmed(in.Fields)
	result.ExcludeFields = joinTrimmed(in.ExcludeFields)
	if in.BeforeSendTime != nil {
		result.BeforeSendTime = *in.BeforeSendTime
	}
	if in.BeforeCreateTime != nil {
		result.BeforeCreateTime = *in.BeforeCreateTime
	}
	result.Count = in.Count

	return result, nil
}

// Values returns the query parameters. Empty inputs contribute nothing.
func (q Query) Values() url.Values {
	result := url.Values{}
	set := func(key, value string) {
		if value != "" {
			result.Set(key, value)
		}
	}
	set(InputFields, q.Fields)
	set(InputExcludeFields, q.ExcludeFields)
	set(InputType, q.Type)
	set(InputStatus, q.Status)
	set(InputBeforeSendTime, q.BeforeSendTime)
	set(InputBeforeCreateTime, q.BeforeCreateTime)
	if q.Count != nil {
		result.Set(InputCount, strconv.Itoa(*q.Count))
	}
	return result
}

// Encode returns the percent-encoded query string, empty when no input was supplied.
func (q Query) Encode() string {
	return q.Values().Encode()
}

func trimmed(values []string) []string {
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = strings.TrimSpace(v)
	}
	return result
}

func joinTrimmed(values []string) string {
	if values == nil {
		return ""
	}
	return strings.Join(trimmed(values), ",")
}

// enumerated matches case-sensitively; no folding is applied.
func enumerated(field string, values []string, allowed []string) (string, error) {
	values = trimmed(values)
	for _, v := range values {
		if !slices.Contains(allowed, v) {
			return "", validationErrors(&FieldError{Field: field, Message: possibleValues(field, allowed)})
		}
	}
	return strings.Join(values, ","), nil
}

func possibleValues(field string, allowed []string) string {
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return fmt.Sprintf("[%s]. Possible values: %s", field, strings.Join(quoted, ", "))
}
