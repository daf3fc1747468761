package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrieveParamsValidate(t *testing.T) {
	threshold := 0.8
	params := &RetrieveParams{
		Query:               "what is the value proposition",
		CanvasID:            "7b7f7f3e-9c7e-4f2a-9a43-2b1f37b3a111",
		DocumentIDs:         []string{"4f6a3c3b-0f37-47b8-b8b7-111111111111"},
		Limit:               10,
		SimilarityThreshold: &threshold,
		ChunksPerDocument:   2,
	}
	assert.Empty(t, Validate(params))
}

func TestRetrieveParamsValidateMinimal(t *testing.T) {
	assert.Empty(t, Validate(&RetrieveParams{Query: "q"}))
}

func TestRetrieveParamsMissingQuery(t *testing.T) {
	errs := Validate(&RetrieveParams{})
	assert.Contains(t, errs, "Query")
}

func TestRetrieveParamsBadValues(t *testing.T) {
	over := 1.5
	errs := Validate(&RetrieveParams{
		Query:               "q",
		CanvasID:            "not-a-uuid",
		DocumentIDs:         []string{"also-not-a-uuid"},
		Limit:               500,
		SimilarityThreshold: &over,
	})
	assert.Contains(t, errs, "CanvasID")
	assert.Contains(t, errs, "Limit")
	assert.Contains(t, errs, "SimilarityThreshold")
}
