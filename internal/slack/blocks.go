package slack

// Block Kit payload model. The wire names (type, text, fields, mrkdwn,
// divider) are Slack's contract and must round-trip exactly.

// Text is a Block Kit text object.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block is one Block Kit element: a section (with text or fields) or a
// divider.
type Block struct {
	Type   string `json:"type"`
	Text   *Text  `json:"text,omitempty"`
	Fields []Text `json:"fields,omitempty"`
}

// Section builds a section block holding one mrkdwn text.
func Section(text string) Block {
	return Block{
		Type: "section",
		Text: &Text{Type: "mrkdwn", Text: text},
	}
}

// FieldSection builds a section block holding mrkdwn fields. Slack lays
// fields out two per line, so callers generally pass an even number of
// key/value strings.
func FieldSection(fields ...string) Block {
	b := Block{Type: "section", Fields: make([]Text, 0, len(fields))}
	for _, f := range fields {
		b.Fields = append(b.Fields, Text{Type: "mrkdwn", Text: f})
	}
	return b
}

// Divider builds a divider block.
func Divider() Block {
	return Block{Type: "divider"}
}

// Message is one chat.postMessage payload: either plain text or a block
// sequence.
type Message struct {
	Text   string
	Blocks []Block
}
