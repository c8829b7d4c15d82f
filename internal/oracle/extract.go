package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cleanContent strips markdown code fences and leading chatter so the
// remainder parses as JSON. Models wrap structured output in ```json blocks
// or preface it with a sentence often enough that this is the normal path,
// not a repair.
func cleanContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	// Drop any prose before the first JSON bracket.
	if i := strings.IndexAny(content, "{["); i > 0 {
		content = content[i:]
	}
	return content
}

// Keys under which models tend to nest an array when asked for a bare one.
var nestedArrayKeys = []string{"diagnoses", "candidates", "differential", "results", "items", "data"}

// decodeArray unmarshals raw into a slice of T. When the payload arrives as
// an object instead of an array, a nested array is probed under common
// keys. Anything beyond that is a malformed response; no data is
// fabricated.
func decodeArray[T any](raw []byte) ([]T, error) {
	var direct []T
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("response is neither an array nor an object: %w", err)
	}

	for _, key := range nestedArrayKeys {
		nested, ok := wrapper[key]
		if !ok {
			continue
		}
		var list []T
		if err := json.Unmarshal(nested, &list); err == nil {
			return list, nil
		}
	}

	return nil, fmt.Errorf("could not locate expected array in response")
}
