// Package preference expands annotated PPT turns into pairwise preference
// samples in the conversational format: a prompt plus a single chosen and a
// single rejected continuation.
package preference

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/papercomputeco/pptree/pkg/conversation"
)

// namespace scopes sample identifiers generated by ID.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/papercomputeco/pptree/sample"))

// Sample is one preference-training record. Chosen and Rejected always hold
// exactly one message.
type Sample struct {
	Prompt   []conversation.Message `json:"prompt"`
	Chosen   []conversation.Message `json:"chosen"`
	Rejected []conversation.Message `json:"rejected"`
}

// ID derives a stable identifier from the sample's content. Equal samples get
// equal ids, which makes duplicate pairs easy to spot downstream.
func ID(s Sample) uuid.UUID {
	data, err := json.Marshal(s)
	if err != nil {
		panic("failed to marshal sample: " + err.Error())
	}
	return uuid.NewSHA1(namespace, data)
}
