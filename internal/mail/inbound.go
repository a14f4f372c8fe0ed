package mail

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/jhillyerd/enmime"

	"invomail/internal/domain"
)

// defaultInlineName names inline PDF parts that arrive without a filename.
const defaultInlineName = "invoice.pdf"

// ParseMessage parses a raw RFC 5322 message into the pipeline's inbound
// representation: sender and subject headers, the plain-text body, and every
// PDF document found in the part tree. Individual parts that fail to decode
// are skipped; only a structural parse failure of the whole message is an
// error.
func ParseMessage(raw []byte) (*domain.InboundEmail, error) {
	if len(raw) == 0 {
		return nil, domain.ErrEmptyMessage
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedMessage, err)
	}

	return &domain.InboundEmail{
		Sender:    env.GetHeader("From"),
		Subject:   env.GetHeader("Subject"),
		Text:      extractText(env.Root),
		Documents: extractDocuments(env.Root),
	}, nil
}

// extractDocuments walks the part tree in structural order and collects every
// part that is either an attachment named *.pdf (case-insensitive) or an
// inline part with the PDF content type. Inline parts without a filename get
// the default name. Empty parts are skipped.
func extractDocuments(root *enmime.Part) []domain.Document {
	var docs []domain.Document
	walkParts(root, func(p *enmime.Part) {
		if p.Disposition == "attachment" {
			name := p.FileName
			if name == "" || !strings.HasSuffix(strings.ToLower(name), ".pdf") {
				return
			}
			if len(p.Content) == 0 {
				log.Printf("mail.extractDocuments: skipping empty attachment %q", name)
				return
			}
			log.Printf("mail.extractDocuments: found PDF attachment %q (%d bytes)", name, len(p.Content))
			docs = append(docs, domain.Document{Data: p.Content, Filename: name})
			return
		}
		if p.ContentType == domain.ContentTypePDF {
			name := p.FileName
			if name == "" {
				name = defaultInlineName
			}
			if len(p.Content) == 0 {
				log.Printf("mail.extractDocuments: skipping empty inline PDF %q", name)
				return
			}
			log.Printf("mail.extractDocuments: found inline PDF %q (%d bytes)", name, len(p.Content))
			docs = append(docs, domain.Document{Data: p.Content, Filename: name})
		}
	})
	return docs
}

// extractText concatenates the decoded content of every non-attachment
// text/plain part, in structural order.
func extractText(root *enmime.Part) string {
	var b strings.Builder
	walkParts(root, func(p *enmime.Part) {
		if p.ContentType == "text/plain" && p.Disposition != "attachment" {
			b.Write(p.Content)
		}
	})
	return strings.TrimSpace(b.String())
}

// walkParts visits p, then its children, then its siblings, matching the
// message's structural traversal order.
func walkParts(p *enmime.Part, visit func(*enmime.Part)) {
	if p == nil {
		return
	}
	visit(p)
	walkParts(p.FirstChild, visit)
	walkParts(p.NextSibling, visit)
}
