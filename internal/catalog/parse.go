package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// document is the on-disk JSON shape of a catalog.
//
//	{
//	  "sources":   {"persistence": "rf_persistence", ...},
//	  "questions": [
//	    {"id": "d_interest", "type": "scaled", "category": "disposition",
//	     "section": "Interest Scale", "prompt": "...",
//	     "scale": {"low": "Strongly Disagree", "high": "Strongly Agree"}},
//	    {"id": "dk_protocol", "type": "single-choice", "category": "domain-knowledge",
//	     "options": [{"text": "MQTT", "tier": "best"}, ...]}
//	  ]
//	}
type document struct {
	Sources   Sources           `json:"sources"`
	Questions []json.RawMessage `json:"questions"`
}

// rawQuestion is used only to peek at the "type" field before full
// unmarshalling, so an unknown type is reported before any field errors.
type rawQuestion struct {
	ID   string       `json:"id"`
	Type QuestionType `json:"type"`
}

// Parse decodes a JSON catalog document and validates it exactly as New does.
// Unknown fields are rejected so a typo in an authored file fails loudly.
func Parse(raw []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, configErr("empty catalog document")
	}

	var doc document
	if err := strictUnmarshal(raw, &doc); err != nil {
		return nil, configErr("decode catalog: %v", err)
	}

	questions := make([]Question, 0, len(doc.Questions))
	for i, rq := range doc.Questions {
		var head rawQuestion
		if err := json.Unmarshal(rq, &head); err != nil {
			return nil, configErr("question %d: cannot read type field: %v", i, err)
		}

		switch head.Type {
		case TypeScaled, TypeSingleChoice, TypeBinary:
		default:
			return nil, configErr("question %d (%q): unknown type %q", i, head.ID, head.Type)
		}

		var q Question
		if err := strictUnmarshal(rq, &q); err != nil {
			return nil, configErr("question %d (%q): %v", i, head.ID, err)
		}
		questions = append(questions, q)
	}

	return New(questions, doc.Sources)
}

func strictUnmarshal(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}
