package campaigns

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Output names reported on completion.
const (
	OutputTotalItems = "total_items"
	OutputID         = "id"
	OutputType       = "type"
	OutputCreateTime = "create_time"
	OutputArchiveURL = "archive_url"
	OutputStatus     = "status"
	OutputEmailsSent = "emails_sent"
	OutputLinks      = "_links"
)

// CampaignFields are the per-campaign outputs, in reporting order.
var CampaignFields = []string{
	OutputID,
	OutputType,
	OutputCreateTime,
	OutputArchiveURL,
	OutputStatus,
	OutputEmailsSent,
	OutputLinks,
}

// Output is the projection of a campaigns response. Every per-campaign slice
// is aligned with the order of the campaigns in the response; a campaign
// without a field contributes nil at its position. TotalItems is nil when the
// response carries no total_items.
type Output struct {
	TotalItems *int64
	ID         []interface{}
	Type       []interface{}
	CreateTime []interface{}
	ArchiveURL []interface{}
	Status     []interface{}
	EmailsSent []interface{}
	Links      []interface{}
}

func (o *Output) column(field string) *[]interface{} {
	switch field {
	case OutputID:
		return &o.ID
	case OutputType:
		return &o.Type
	case OutputCreateTime:
		return &o.CreateTime
	case OutputArchiveURL:
		return &o.ArchiveURL
	case OutputStatus:
		return &o.Status
	case OutputEmailsSent:
		return &o.EmailsSent
	case OutputLinks:
		return &o.Links
	}
	return nil
}

// Project extracts the output fields from a campaigns response body.
// A body that is not JSON projects to no campaigns and a nil total.
func Project(body []byte) Output {
	var result Output
	for _, field := range CampaignFields {
		*result.column(field) = []interface{}{}
	}
	if !gjson.ValidBytes(body) {
		return result
	}
	doc := gjson.ParseBytes(body)

	if total := doc.Get(OutputTotalItems); total.Exists() {
		n := total.Int()
		result.TotalItems = &n
	}
	campaigns := doc.Get("campaigns")
	if !campaigns.IsArray() {
		return result
	}
	campaigns.ForEach(func(_, campaign gjson.Result) bool {
		for _, field := range CampaignFields {
			col := result.column(field)
			*col = append(*col, valueOf(campaign.Get(field)))
		}
		return true
	})

	return result
}

func valueOf(r gjson.Result) interface{} {
	if !r.Exists() {
		return nil
	}
	return r.Value()
}

func (o Output) total() interface{} {
	if o.TotalItems == nil {
		return nil
	}
	return *o.TotalItems
}

// Map returns the projection keyed by output name, the shape the host records.
func (o Output) Map() map[string]interface{} {
	result := map[string]interface{}{
		OutputTotalItems: o.total(),
	}
	for _, field := range CampaignFields {
		result[field] = *o.column(field)
	}
	return result
}

// JSON renders the projection as a JSON object.
func (o Output) JSON() (string, error) {
	json, err := sjson.Set("{}", OutputTotalItems, o.total())
	if err != nil {
		return "", err
	}
	for _, field := range CampaignFields {
		json, err = sjson.Set(json, field, *o.column(field))
		if err != nil {
			return "", err
		}
	}
	return json, nil
}
