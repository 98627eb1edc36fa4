package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// extractionReply is the model's answer after shape checks. Fields stay as the model wrote them.
type extractionReply struct {
	MemberID            *string
	MemberName          string
	Category            string
	Title               string
	Data                map[string]interface{}
	ConfirmationMessage string
	Candidates          []string
}

// parseExtractionReply accepts a JSON object, optionally wrapped in a Markdown code fence.
// Missing fields are tolerated; fields of the wrong type are not.
func parseExtractionReply(raw string) (*extractionReply, error) {
	text := stripCodeFence(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedCompletion)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: reply is not an object", ErrMalformedCompletion)
	}

	reply := &extractionReply{Data: map[string]interface{}{}}

	switch v := fields["memberId"].(type) {
	case nil:
	case string:
		reply.MemberID = &v
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		reply.MemberID = &s
	default:
		return nil, fmt.Errorf("%w: memberId has type %T", ErrMalformedCompletion, v)
	}

	var err error
	if reply.MemberName, err = stringField(fields, "memberName"); err != nil {
		return nil, err
	}
	if reply.Category, err = stringField(fields, "category"); err != nil {
		return nil, err
	}
	if reply.Title, err = stringField(fields, "title"); err != nil {
		return nil, err
	}
	if reply.ConfirmationMessage, err = stringField(fields, "confirmationMessage"); err != nil {
		return nil, err
	}

	switch v := fields["data"].(type) {
	case nil:
	case map[string]interface{}:
		reply.Data = v
	default:
		return nil, fmt.Errorf("%w: data has type %T", ErrMalformedCompletion, v)
	}

	// candidates are advisory, so a bad shape is dropped rather than failing the call
	if list, ok := fields["candidates"].([]interface{}); ok {
		for _, item := range list {
			if name, ok := item.(string); ok {
				reply.Candidates = append(reply.Candidates, name)
			}
		}
	}

	return reply, nil
}

func stringField(fields map[string]interface{}, key string) (string, error) {
	switch v := fields[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s has type %T", ErrMalformedCompletion, key, v)
	}
}

func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		// drop the info string, e.g. ```json
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
