package videometa

import (
	"strings"
)

// Category is the difficulty tier a training video belongs to.
type Category string

const (
	CategoryBeginner     Category = "beginner"
	CategoryIntermediate Category = "intermediate"
	CategoryAdvanced     Category = "advanced"
)

// Categories lists every tier in the order used for prefix matching.
var Categories = []Category{CategoryBeginner, CategoryIntermediate, CategoryAdvanced}

// ParseCategory matches s case-insensitively against the known tiers.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// NormalizeCategory lowercases s and falls back to beginner for unknown tiers.
func NormalizeCategory(s string) Category {
	if c, ok := ParseCategory(s); ok {
		return c
	}
	return CategoryBeginner
}

const (
	// MetadataPrefix is the reserved namespace that holds generated documents.
	MetadataPrefix = "metadata/"

	// DefaultTitle is used when nothing is left of a name after cleaning.
	DefaultTitle = "Training Video"

	// DefaultInstructor is written to every generated record.
	DefaultInstructor = "Training Expert"

	// RecordTimestamp is the fixed creation/update date of generated records.
	RecordTimestamp = "2024-10-21T00:00:00Z"
)

// VideoEntry identifies one video discovered in the container.
type VideoEntry struct {
	Path      string   // full storage key
	FileName  string   // last path segment including extension
	CleanName string   // display name used for the metadata document
	Category  Category // always one of Categories
	SizeBytes int64
	URL       string
}

// MetadataKey returns the storage key of the entry's metadata document.
func (e *VideoEntry) MetadataKey() string {
	return MetadataKey(e.CleanName)
}

// MetadataKey returns the storage key for the document of cleanName.
func MetadataKey(cleanName string) string {
	return MetadataPrefix + cleanName + ".json"
}

// Chapter is one section of the fixed per-category chapter template.
type Chapter struct {
	Title       string `json:"title" validate:"required"`
	StartTime   int    `json:"start_time" validate:"gte=0"`
	EndTime     int    `json:"end_time" validate:"gtefield=StartTime"`
	Description string `json:"description"`
}

// Record is the metadata document written for each video.
type Record struct {
	VideoID            string    `json:"video_id" validate:"required"`
	Title              string    `json:"title" validate:"required"`
	Description        string    `json:"description"`
	Category           Category  `json:"category" validate:"oneof=beginner intermediate advanced"`
	DurationSeconds    int       `json:"duration_seconds" validate:"min=300,max=7200"`
	ThumbnailURL       string    `json:"thumbnail_url"`
	VideoURL           string    `json:"video_url"`
	Transcript         string    `json:"transcript"`
	Topics             []string  `json:"topics"`
	LearningObjectives []string  `json:"learning_objectives"`
	Prerequisites      []string  `json:"prerequisites"`
	DifficultyLevel    string    `json:"difficulty_level"`
	Instructor         string    `json:"instructor"`
	CreatedDate        string    `json:"created_date"`
	UpdatedDate        string    `json:"updated_date"`
	Tags               []string  `json:"tags"`
	Chapters           []Chapter `json:"chapters" validate:"dive"`
}
