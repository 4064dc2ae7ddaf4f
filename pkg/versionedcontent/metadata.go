package versionedcontent

// MetadataPatch is a partial metadata update. Nil fields are carried
// over from the current metadata unchanged; non-nil fields overwrite.
// Keywords are replaced wholesale when present, never element-merged.
type MetadataPatch struct {
	Topic                  *string   `json:"topic,omitempty"`
	Keywords               *[]string `json:"keywords,omitempty"`
	Tone                   *string   `json:"tone,omitempty"`
	AdditionalInstructions *string   `json:"additional_instructions,omitempty"`
}

// Apply merges the patch into the current metadata and returns the
// result. The receiver and the input are left unmodified.
func (p *MetadataPatch) Apply(current Metadata) Metadata {
	merged := current
	if p == nil {
		return merged
	}

	if p.Topic != nil {
		merged.Topic = *p.Topic
	}
	if p.Keywords != nil {
		keywords := make([]string, len(*p.Keywords))
		copy(keywords, *p.Keywords)
		merged.Keywords = keywords
	}
	if p.Tone != nil {
		merged.Tone = *p.Tone
	}
	if p.AdditionalInstructions != nil {
		merged.AdditionalInstructions = *p.AdditionalInstructions
	}

	return merged
}
