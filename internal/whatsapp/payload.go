package whatsapp

// TemplatePayload is the JSON body of the provider's template-send
// endpoint.  Field names are fixed by the provider API.
type TemplatePayload struct {
	TemplateName string         `json:"templateName"`
	LanguageCode string         `json:"languageCode"`
	Body         TemplateBody   `json:"body"`
	Header       TemplateHeader `json:"header"`
	WaID         string         `json:"waId"`
}

// TemplateBody carries the named text substitutions of the template.
type TemplateBody struct {
	Map map[string]TemplateText `json:"map"`
}

// TemplateText is one templated text field.
type TemplateText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TemplateHeader is the location attachment shown above the message.
type TemplateHeader struct {
	Type     string           `json:"type"`
	Location TemplateLocation `json:"location"`
}

// TemplateLocation is the pin sent in the header.
type TemplateLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
}
