// Package version reads the image versions and breakdown rows a project is built from.
package version

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raphi011/vsort/internal/membership"
)

// Record is one image version.
type Record struct {
	ID       membership.ImageID
	Code     string
	TypeTag  string // raw version type, e.g. "Concept Art"
	Status   string
	Entity   string
	Task     string
	User     string
	Created  string
	Image    Source // thumbnail
	Uploaded Source // full-size media, may be nil
}

type rawRecord struct {
	ID       membership.ImageID `json:"id"`
	Code     string             `json:"code"`
	Type     json.RawMessage    `json:"sg_version_type"`
	Status   string             `json:"sg_status_list"`
	Entity   json.RawMessage    `json:"entity"`
	Task     json.RawMessage    `json:"sg_task"`
	User     json.RawMessage    `json:"user"`
	Created  string             `json:"created_at"`
	Image    json.RawMessage    `json:"image"`
	Uploaded json.RawMessage    `json:"sg_uploaded_movie"`
}

// UnmarshalJSON reads the record format where linked fields may be a plain string
// or an object with a name.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{
		ID:       raw.ID,
		Code:     raw.Code,
		TypeTag:  nameOf(raw.Type),
		Status:   raw.Status,
		Entity:   nameOf(raw.Entity),
		Task:     nameOf(raw.Task),
		User:     nameOf(raw.User),
		Created:  raw.Created,
		Image:    parseSource(raw.Image),
		Uploaded: parseSource(raw.Uploaded),
	}
	return nil
}

// MarshalJSON writes the record back in the same shape it is read in.
func (r Record) MarshalJSON() ([]byte, error) {
	type named struct {
		Name string `json:"name"`
	}
	out := struct {
		ID       membership.ImageID `json:"id"`
		Code     string             `json:"code,omitempty"`
		Type     *named             `json:"sg_version_type,omitempty"`
		Status   string             `json:"sg_status_list,omitempty"`
		Entity   *named             `json:"entity,omitempty"`
		Task     *named             `json:"sg_task,omitempty"`
		User     *named             `json:"user,omitempty"`
		Created  string             `json:"created_at,omitempty"`
		Image    Source             `json:"image,omitempty"`
		Uploaded Source             `json:"sg_uploaded_movie,omitempty"`
	}{
		ID:       r.ID,
		Code:     r.Code,
		Status:   r.Status,
		Created:  r.Created,
		Image:    r.Image,
		Uploaded: r.Uploaded,
	}
	for _, f := range []struct {
		dst **named
		v   string
	}{{&out.Type, r.TypeTag}, {&out.Entity, r.Entity}, {&out.Task, r.Task}, {&out.User, r.User}} {
		if f.v != "" {
			*f.dst = &named{Name: f.v}
		}
	}
	return json.Marshal(out)
}

// nameOf reads a string or the name of an object.
func nameOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

// ThumbnailLocator returns what the grid fetches.
func (r Record) ThumbnailLocator() string {
	return Locator(r.Image)
}

// ViewerLocator returns what the enlarged viewer fetches: the uploaded media when
// it is an image, otherwise the thumbnail source.
func (r Record) ViewerLocator() string {
	if loc := Locator(r.Uploaded); loc != "" && !isVideo(r.Uploaded) {
		return loc
	}
	return r.ThumbnailLocator()
}

// Category returns the filter category of the record.
func (r Record) Category() Category {
	return Classify(r.TypeTag)
}

// Title returns the code, or the id when the record has no code.
func (r Record) Title() string {
	if r.Code != "" {
		return r.Code
	}
	return "#" + r.ID.String()
}

// IsImage reports whether the record looks like an image version, judged by its
// type tag or, without one, its code and task.
func (r Record) IsImage() bool {
	if r.TypeTag != "" {
		return containsAny(strings.ToLower(r.TypeTag), imageKeywords)
	}
	return containsAny(strings.ToLower(r.Code), imageKeywords) ||
		containsAny(strings.ToLower(r.Task), imageKeywords)
}

var imageKeywords = []string{"concept", "art", "storyboard", "reference", "image", "ref", "video", "movie"}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Decode reads a JSON array of records.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode versions: %w", err)
	}
	return records, nil
}

// LoadFile reads a JSON array of records from path.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
