package port

import "context"

// ModelDocument is one named document payload submitted to the model.
type ModelDocument struct {
	Data []byte
	Name string
}

// ExtractInput carries one model request: the extraction instruction and the
// documents of a single batch. The instruction already embeds any email text
// supplied as context; batching to the provider document limit is the
// caller's responsibility.
type ExtractInput struct {
	Prompt    string
	Documents []ModelDocument
}

// ExtractOutput contains the raw response from the model.
type ExtractOutput struct {
	Text      string
	ModelUsed string
}

// DocumentModel abstracts the AI document-understanding service. Must accept
// at least five documents per call.
type DocumentModel interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
