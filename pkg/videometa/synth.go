package videometa

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	minDurationSeconds = 300
	maxDurationSeconds = 7200
	secondsPerMiB      = 8
	maxTitleWords      = 3
)

var (
	categoryPrefixPattern = regexp.MustCompile(`(?i)^(beginner|intermediate|advanced)[-_]?`)
	separatorPattern      = regexp.MustCompile(`[-_]+`)
	digitPattern          = regexp.MustCompile(`\d+`)

	baseTopics = []string{"training", "tutorial"}
)

// BuildRecord synthesizes the metadata record of a video. Overrides, when
// present, replace whole fields after synthesis and the result is validated.
func BuildRecord(entry *VideoEntry, overrides Overrides) (*Record, error) {
	category := NormalizeCategory(string(entry.Category))
	title := TitleFromName(entry.CleanName)

	rec := &Record{
		VideoID:            VideoID(category, entry.CleanName),
		Title:              title,
		Description:        fmt.Sprintf("Training video: %s - %s level content for comprehensive learning", title, capitalize(string(category))),
		Category:           category,
		DurationSeconds:    EstimateDuration(entry.SizeBytes),
		ThumbnailURL:       "",
		VideoURL:           entry.URL,
		Transcript:         fmt.Sprintf("Training content covering %s. This %s-level course provides comprehensive instruction on the topic.", strings.ToLower(title), category),
		Topics:             TopicsFromTitle(title),
		LearningObjectives: ObjectivesFor(title, category),
		Prerequisites:      PrerequisitesFor(category),
		DifficultyLevel:    string(category),
		Instructor:         DefaultInstructor,
		CreatedDate:        RecordTimestamp,
		UpdatedDate:        RecordTimestamp,
		Tags:               TagsFor(title, category),
		Chapters:           ChaptersFor(title, category),
	}

	if err := overrides.Apply(rec); err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// VideoID builds the record identifier: category, a hyphen, then the slug of cleanName.
func VideoID(category Category, cleanName string) string {
	return string(category) + "-" + Slugify(cleanName)
}

// Slugify lowercases s and turns spaces and underscores into hyphens.
func Slugify(s string) string {
	return strings.NewReplacer(" ", "-", "_", "-").Replace(strings.ToLower(s))
}

// TitleFromName turns a file name into a human-readable title.
func TitleFromName(name string) string {
	t := categoryPrefixPattern.ReplaceAllString(name, "")
	t = separatorPattern.ReplaceAllString(t, " ")
	t = digitPattern.ReplaceAllString(t, "")

	words := lo.Map(strings.Fields(t), func(w string, _ int) string {
		return capitalize(w)
	})
	if len(words) == 0 {
		return DefaultTitle
	}
	return strings.Join(words, " ")
}

// EstimateDuration guesses a duration in seconds from file size, at eight
// seconds per whole MiB, clamped to [300, 7200].
func EstimateDuration(sizeBytes int64) int {
	seconds := sizeBytes / (1024 * 1024) * secondsPerMiB
	return int(min(max(seconds, minDurationSeconds), maxDurationSeconds))
}

// TopicsFromTitle returns the base topics plus up to three significant title words.
func TopicsFromTitle(title string) []string {
	return lo.Uniq(append(append([]string{}, baseTopics...), titleWords(title)...))
}

// TagsFor returns the base tags, the category and up to three significant title words.
func TagsFor(title string, category Category) []string {
	tags := append(append([]string{}, baseTopics...), string(category))
	return lo.Uniq(append(tags, titleWords(title)...))
}

// titleWords returns at most maxTitleWords lowercase words longer than three characters.
func titleWords(title string) []string {
	words := lo.FilterMap(strings.Fields(title), func(w string, _ int) (string, bool) {
		return strings.ToLower(w), utf8.RuneCountInString(w) > 3
	})
	if len(words) > maxTitleWords {
		words = words[:maxTitleWords]
	}
	return words
}

// ObjectivesFor returns the learning objectives of a category.
func ObjectivesFor(title string, category Category) []string {
	lower := strings.ToLower(title)
	switch category {
	case CategoryIntermediate:
		return []string{
			"Master intermediate techniques in " + lower,
			"Analyze complex scenarios and develop solutions",
			"Integrate concepts with existing knowledge",
		}
	case CategoryAdvanced:
		return []string{
			"Achieve expert-level proficiency in " + lower,
			"Develop innovative approaches and strategies",
			"Lead implementation and mentor others",
		}
	default:
		return []string{
			"Understand the fundamentals of " + lower,
			"Apply basic concepts in practical scenarios",
			"Identify key principles and best practices",
		}
	}
}

// PrerequisitesFor returns the prerequisites of a category. Beginner has none.
func PrerequisitesFor(category Category) []string {
	switch category {
	case CategoryIntermediate:
		return []string{"Basic understanding of core concepts", "Completion of beginner-level training"}
	case CategoryAdvanced:
		return []string{"Intermediate certification", "Practical experience", "Strong foundational knowledge"}
	default:
		return []string{}
	}
}

// ChaptersFor returns the fixed four-chapter template of a category.
func ChaptersFor(title string, category Category) []Chapter {
	switch category {
	case CategoryIntermediate:
		return []Chapter{
			{Title: "Review & Setup", StartTime: 0, EndTime: 300, Description: "Prerequisites review and setup"},
			{Title: "Advanced Concepts", StartTime: 300, EndTime: 1000, Description: "Intermediate-level concepts and techniques"},
			{Title: "Case Studies", StartTime: 1000, EndTime: 1400, Description: "Real-world applications and case studies"},
			{Title: "Best Practices", StartTime: 1400, EndTime: 1800, Description: "Industry best practices and next steps"},
		}
	case CategoryAdvanced:
		return []Chapter{
			{Title: "Expert Overview", StartTime: 0, EndTime: 240, Description: "Advanced concepts overview"},
			{Title: "Deep Dive Analysis", StartTime: 240, EndTime: 1080, Description: "In-depth technical analysis"},
			{Title: "Advanced Techniques", StartTime: 1080, EndTime: 1560, Description: "Expert-level techniques and strategies"},
			{Title: "Innovation & Leadership", StartTime: 1560, EndTime: 1800, Description: "Innovation approaches and leadership aspects"},
		}
	default:
		return []Chapter{
			{Title: "Course Introduction", StartTime: 0, EndTime: 180, Description: "Welcome and overview of " + title},
			{Title: "Basic Concepts", StartTime: 180, EndTime: 900, Description: "Fundamental principles and concepts"},
			{Title: "Practical Examples", StartTime: 900, EndTime: 1200, Description: "Step-by-step examples and demonstrations"},
			{Title: "Practice & Summary", StartTime: 1200, EndTime: 1500, Description: "Practice exercises and key takeaways"},
		}
	}
}

// capitalize upper-cases the first rune of s and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
