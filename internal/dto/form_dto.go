package dto

// FormField is one text field decoded from the multipart stream. Fields are
// kept as an ordered slice, not a map: response order must follow the order
// the fields arrived in.
type FormField struct {
	Key   string
	Value string
}

// FilePart is one uploaded file from the multipart stream.
type FilePart struct {
	FieldName   string // e.g. "media[Upload a photo of the shop]"
	Filename    string
	ContentType string
	Data        []byte
}

// FormSubmission is the decoded multipart payload handed to the intake service.
type FormSubmission struct {
	Fields []FormField
	Files  []FilePart
}
