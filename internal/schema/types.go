package schema

// Property is a class property descriptor from the schema source,
// annotated with the caller's access right ("read" or "write").
type Property struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Example     string `json:"example,omitempty"`
	AccessRight string `json:"accessRight"`
}

// classPropertiesResponse mirrors the schema source payload.
type classPropertiesResponse struct {
	ClassProperties []classProperty `json:"classProperties"`
}

type classProperty struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// accessRight mirrors the access-rights source payload. Right == 2 denotes
// read-only; anything else is write-enabled.
type accessRight struct {
	Name  string `json:"Name"`
	Right int    `json:"Right"`
}

const readOnlyRight = 2
