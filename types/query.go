package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

// RetrieveParams is the JSON body of a retrieval request.
type RetrieveParams struct {
	Query               string   `json:"query" validate:"required"`
	CanvasID            string   `json:"canvas_id,omitempty" validate:"omitempty,uuid"`
	DocumentIDs         []string `json:"document_ids,omitempty" validate:"omitempty,dive,uuid"`
	FieldKey            string   `json:"field_key,omitempty"`
	Limit               int      `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty" validate:"omitempty,min=0,max=1"`
	ChunksPerDocument   int      `json:"chunks_per_document,omitempty" validate:"omitempty,min=1"`
}

func (params *RetrieveParams) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}
