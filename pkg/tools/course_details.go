package tools

import (
	"context"
	"encoding/json"
	"strings"

	"course-chatbot-be/pkg/retriever/docstore"
)

// CourseDetailsTool fetches a single course document by id.
type CourseDetailsTool struct {
	client docstore.Client
}

func NewCourseDetailsTool(c docstore.Client) *CourseDetailsTool {
	return &CourseDetailsTool{client: c}
}

func (t *CourseDetailsTool) Definition() Definition {
	return Definition{
		Name:        "get_course_details",
		Description: "Get the full details of a course by its id",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"course_id": map[string]interface{}{
					"type":        "integer",
					"description": "The course id",
				},
			},
			"required": []string{"course_id"},
		},
	}
}

type courseArgs struct {
	CourseID int64 `json:"course_id"`
}

func (t *CourseDetailsTool) Call(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in courseArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, err
	}
	doc, err := t.client.Fetch(ctx, in.CourseID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"id":      doc.ID,
		"title":   doc.Title,
		"url":     doc.URL,
		"type":    doc.Type,
		"content": doc.Body,
	}, nil
}

// CourseMaterialsTool lists the downloadable PDF materials attached to a
// course, grouped out of its versioned content metadata.
type CourseMaterialsTool struct {
	client docstore.Client
}

func NewCourseMaterialsTool(c docstore.Client) *CourseMaterialsTool {
	return &CourseMaterialsTool{client: c}
}

func (t *CourseMaterialsTool) Definition() Definition {
	return Definition{
		Name:        "get_course_materials",
		Description: "List the PDF materials available for a course",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"course_id": map[string]interface{}{
					"type":        "integer",
					"description": "The course id",
				},
			},
			"required": []string{"course_id"},
		},
	}
}

// Material is one downloadable course file.
type Material struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Type    string `json:"type"`
	Version string `json:"version"`
}

func (t *CourseMaterialsTool) Call(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in courseArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, err
	}
	meta, err := t.client.FetchMeta(ctx, in.CourseID)
	if err != nil {
		return nil, err
	}
	materials := extractMaterials(meta)
	return map[string]interface{}{
		"course_id": in.CourseID,
		"materials": materials,
	}, nil
}

// extractMaterials walks flms_version_content → course_materials and keeps
// PDF entries. Titles mentioning the table-of-contents summary map to the
// "about" type, everything else is the full course document.
func extractMaterials(meta map[string]interface{}) []Material {
	materials := []Material{}
	versionContent, ok := meta["flms_version_content"].(map[string]interface{})
	if !ok {
		return materials
	}
	for version, raw := range versionContent {
		versionData, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		items, ok := versionData["course_materials"].([]interface{})
		if !ok {
			continue
		}
		for _, item := range items {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			file, _ := entry["file"].(string)
			if !strings.Contains(file, ".pdf") {
				continue
			}
			title, _ := entry["title"].(string)
			if title == "" {
				title = "Course Material"
			}
			materials = append(materials, Material{
				Title:   title,
				URL:     file,
				Type:    materialType(title),
				Version: version,
			})
		}
	}
	return materials
}

func materialType(title string) string {
	if strings.Contains(title, "Table of Contents") || strings.Contains(title, "About") {
		return "about"
	}
	return "full"
}
