package library

import (
	"path/filepath"
	"strings"
	"time"

	"tube-adventures/internal/annotations"
	"tube-adventures/internal/database"
	"tube-adventures/internal/filesystem"
	"tube-adventures/internal/videoid"
)

// Link is a gameplay annotation pointing at another video.
type Link struct {
	AnnotationID string `json:"annotationId"`
	ToVideoID    string `json:"toVideoId"`
	ClickURL     string `json:"clickUrl"`
}

// Report is the audit of one annotation file.
type Report struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	VideoID string `json:"videoId,omitempty"`

	Kind annotations.ErrorKind `json:"-"`
	Err  error                 `json:"-"`

	Annotations   int `json:"annotations"`
	Gameplay      int `json:"gameplay"`
	Notes         int `json:"notes"`
	ExternalLinks int `json:"externalLinks"`
	SingleRegion  int `json:"singleRegion"`

	// DuplicateIDs lists each annotation ID used more than once.
	DuplicateIDs []string `json:"duplicateIds,omitempty"`
	// InvertedWindows lists annotations whose end precedes their start.
	InvertedWindows []string `json:"invertedWindows,omitempty"`
	Links           []Link   `json:"links,omitempty"`
	// BadLinks lists gameplay annotations whose click URL names no video.
	BadLinks []string `json:"badLinks,omitempty"`

	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// OK reports whether the file decoded.
func (r *Report) OK() bool {
	return r.Err == nil
}

// Clean reports whether the file decoded and no audit check flagged it.
func (r *Report) Clean() bool {
	return r.OK() && r.VideoID != "" && len(r.DuplicateIDs) == 0 &&
		len(r.InvertedWindows) == 0 && len(r.BadLinks) == 0
}

// Inspect decodes the file at path and audits the result. Decode failures
// are reported in the Report, never returned.
func Inspect(path string) Report {
	ext := filepath.Ext(path)
	r := Report{Path: path}

	stem := strings.TrimSuffix(filepath.Base(path), ext)
	r.Name = stem
	if id, ok := videoid.FromFilename(path, ext); ok {
		r.VideoID = id
		r.Name = strings.TrimSuffix(stem, " "+id)
	}

	if info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig()); err == nil {
		r.Size = info.Size()
		r.ModTime = info.ModTime()
	}

	list, err := annotations.ParseFile(path)
	r.Kind = annotations.KindOf(err)
	if err != nil {
		r.Err = err
		return r
	}

	r.audit(list)
	return r
}

func (r *Report) audit(list []annotations.Annotation) {
	r.Annotations = len(list)
	seen := make(map[string]int, len(list))

	for i := range list {
		a := &list[i]

		switch a.Type {
		case annotations.TypeGameplay:
			r.Gameplay++
			if id, ok := videoid.FromURL(a.ClickURL); ok {
				r.Links = append(r.Links, Link{AnnotationID: a.ID, ToVideoID: id, ClickURL: a.ClickURL})
			} else {
				r.BadLinks = append(r.BadLinks, a.ID)
			}
		case annotations.TypeNotes:
			r.Notes++
		case annotations.TypeExternalLink:
			r.ExternalLinks++
		}

		if a.HasSingleRegion() {
			r.SingleRegion++
		} else if a.EndRect.Time < a.StartRect.Time {
			r.InvertedWindows = append(r.InvertedWindows, a.ID)
		}

		if a.ID == "" {
			continue
		}
		seen[a.ID]++
		if seen[a.ID] == 2 {
			r.DuplicateIDs = append(r.DuplicateIDs, a.ID)
		}
	}
}

// Record converts the report into its catalog row and links.
func (r *Report) Record() (*database.AnnotationFile, []database.Link) {
	f := &database.AnnotationFile{
		Path:            r.Path,
		Name:            r.Name,
		VideoID:         r.VideoID,
		Status:          database.FileStatusValid,
		Annotations:     r.Annotations,
		Gameplay:        r.Gameplay,
		Notes:           r.Notes,
		ExternalLinks:   r.ExternalLinks,
		SingleRegion:    r.SingleRegion,
		DuplicateIDs:    r.DuplicateIDs,
		InvertedWindows: r.InvertedWindows,
		BadLinks:        len(r.BadLinks),
		Size:            r.Size,
		ModTime:         r.ModTime,
	}
	if r.Err != nil {
		f.Status = database.FileStatusInvalid
		f.ErrorKind = r.Kind.String()
		f.ErrorMessage = r.Err.Error()
	}

	links := make([]database.Link, 0, len(r.Links))
	for _, l := range r.Links {
		links = append(links, database.Link{
			FromPath:     r.Path,
			FromVideoID:  r.VideoID,
			AnnotationID: l.AnnotationID,
			ToVideoID:    l.ToVideoID,
			ClickURL:     l.ClickURL,
		})
	}
	return f, links
}

// DuplicateVideoIDs returns the video IDs claimed by more than one file,
// mapped to the files claiming them.
func DuplicateVideoIDs(reports []Report) map[string][]string {
	byID := make(map[string][]string)
	for _, r := range reports {
		if r.VideoID != "" {
			byID[r.VideoID] = append(byID[r.VideoID], r.Path)
		}
	}
	for id, paths := range byID {
		if len(paths) < 2 {
			delete(byID, id)
		}
	}
	return byID
}
