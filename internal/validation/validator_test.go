package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordWash struct {
	WashTypeID string `json:"wash_type_id" validate:"required,uuid"`
	CarSize    string `json:"car_size" validate:"required,car_size"`
}

func TestValidate(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	t.Log("valid payload passes")
	{
		err := v.Validate(&recordWash{WashTypeID: "16fd2706-8baf-433b-82eb-8c7fada847da", CarSize: "bakkie_suv"})
		require.NoError(t, err)
	}

	t.Log("violations are reported with json field names")
	{
		err := v.Validate(&recordWash{WashTypeID: "1111", CarSize: "truck"})
		require.Error(t, err)

		var pldErr *PayloadError
		require.ErrorAs(t, err, &pldErr)

		raw, err := json.Marshal(pldErr)
		require.NoError(t, err)

		var body struct {
			Errors []violation `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(raw, &body))
		require.Len(t, body.Errors, 2)
		require.Equal(t, "wash_type_id", body.Errors[0].Field)
		require.Equal(t, "car_size", body.Errors[1].Field)
		require.Equal(t, "car_size must be either small or bakkie_suv", body.Errors[1].Message)
	}
}
