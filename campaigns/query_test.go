package campaigns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery_TrimsAndJoinsInOrder(t *testing.T) {
	send := "2024-01-01T00:00:00+00:00"
	q, err := BuildQuery(StepInputs{
		Fields:         []string{"  total_items", "campaigns.id  ", "campaigns.status"},
		ExcludeFields:  []string{" _links "},
		Type:           []string{"variate ", " absplit", "plaintext"},
		Status:         []string{" sending", "paused ", "schedule"},
		BeforeSendTime: &send,
		Count:          intPtr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, "total_items,campaigns.id,campaigns.status", q.Fields)
	assert.Equal(t, "_links", q.ExcludeFields)
	assert.Equal(t, "variate,absplit,plaintext", q.Type)
	assert.Equal(t, "sending,paused,schedule", q.Status)

	v := q.Values()
	assert.Equal(t, "total_items,campaigns.id,campaigns.status", v.Get(InputFields))
	assert.Equal(t, send, v.Get(InputBeforeSendTime))
	assert.Equal(t, "5", v.Get(InputCount))
	assert.False(t, v.Has(InputBeforeCreateTime))
}

func TestBuildQuery_PassesTimesThroughVerbatim(t *testing.T) {
	notATime := "last tuesday"
	q, err := BuildQuery(StepInputs{BeforeCreateTime: &notATime})
	require.NoError(t, err)
	assert.Equal(t, "before_create_time=last+tuesday", q.Encode())
}

func TestBuildQuery_EmptyInputsEncodeToNothing(t *testing.T) {
	q, err := BuildQuery(StepInputs{})
	require.NoError(t, err)
	assert.Equal(t, "", q.Encode())
}

func TestBuildQuery_FieldsHaveNoEnumeration(t *testing.T) {
	q, err := BuildQuery(StepInputs{Fields: []string{"anything", "at all"}})
	require.NoError(t, err)
	assert.Equal(t, "fields=anything%2Cat+all", q.Encode())
}

func TestBuildQuery_RejectsUnknownValues(t *testing.T) {
	_, err := BuildQuery(StepInputs{Status: []string{"sent", " "}})

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, InputStatus, fieldErr.Field)
	assert.Equal(t, `[status]. Possible values: "save", "paused", "schedule", "sending", "sent"`, fieldErr.Error())
}

func TestBuildQuery_AcceptsEveryEnumeratedValue(t *testing.T) {
	q, err := BuildQuery(StepInputs{Type: CampaignTypes, Status: CampaignStatuses})
	require.NoError(t, err)
	assert.Equal(t, "regular,plaintext,absplit,rss,variate", q.Type)
	assert.Equal(t, "save,paused,schedule,sending,sent", q.Status)
}
