package model

import "time"

type Project struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectSource is one uploaded file belonging to a project. SourceURL is the
// storage location; it is nil for sources whose upload never completed.
type ProjectSource struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	SourceName string    `json:"source_name"`
	SourceURL  *string   `json:"source_url,omitempty"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}

// FileRef points the scanner at a file: SourceName is the path inside the
// project, SourceURL is where the file store can read it from.
type FileRef struct {
	SourceName string
	SourceURL  string
}

func (s ProjectSource) Ref() FileRef {
	ref := FileRef{SourceName: s.SourceName}
	if s.SourceURL != nil {
		ref.SourceURL = *s.SourceURL
	}
	return ref
}

func RefsFromSources(sources []ProjectSource) []FileRef {
	refs := make([]FileRef, len(sources))
	for i, s := range sources {
		refs[i] = s.Ref()
	}
	return refs
}
