package types

// HelloGetResponse represents a successful response to a greeting request.
type HelloGetResponse struct {
	Response
	Greeting string `json:"greeting"`
}

// SearchGetRequestData is the query of a search request.
type SearchGetRequestData struct {
	Query string   `param:"q" json:"q"`
	Page  int      `param:"page" json:"page"`
	Tags  []string `param:"tags" json:"tags,omitempty"`
	Exact bool     `param:"exact" json:"exact"`
}

// SearchGetResponse represents a successful response to a search request.
type SearchGetResponse struct {
	Response
	Query   SearchGetRequestData `json:"query"`
	Total   int                  `json:"total"`
	Results []string             `json:"results"`
}

// PrefsGetResponse contains the preferences stored in the client cookies.
type PrefsGetResponse struct {
	Response
	Theme    string `json:"theme"`
	Language string `json:"language"`
	Compact  bool   `json:"compact"`
}

// AgentGetResponse describes the client that sent the request.
type AgentGetResponse struct {
	Response
	UserAgent string   `json:"user_agent"`
	Languages []string `json:"languages"`
}
