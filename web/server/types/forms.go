package types

// CSRFGetResponse contains an anti-forgery token, and where to submit it.
type CSRFGetResponse struct {
	Response
	Token      string `json:"token"`
	HeaderName string `json:"header_name"`
	FieldName  string `json:"field_name"`
}

// ContactPostRequestData is a message submitted with the contact form.
type ContactPostRequestData struct {
	Name    string
	Email   string
	Message string
}

// ContactPostResponse represents a successful response to a contact form
// submission.
type ContactPostResponse struct {
	Response
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// UploadedFile describes a file received in a multipart form.
type UploadedFile struct {
	Field       string `json:"field"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	SHA256      string `json:"sha256"`
}

// UploadPostResponse represents a successful response to a file upload.
type UploadPostResponse struct {
	Response
	Title string         `json:"title,omitempty"`
	Files []UploadedFile `json:"files"`
}
