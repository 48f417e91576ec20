package videometa_test

import (
	"testing"

	"github.com/ganachan/agentic-retrieval/pkg/videometa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mib = 1024 * 1024

func TestTitleFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"deep-dive", "Deep Dive"},
		{"", "Training Video"},
		{"random_video_101", "Random Video"},
		{"advanced-kubernetes--operators", "Kubernetes Operators"},
		{"Beginner_GIT_basics", "Git Basics"},
		{"2024", "Training Video"},
		{"Intro to Go", "Intro To Go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, videometa.TitleFromName(tt.name))
		})
	}
}

func TestEstimateDuration(t *testing.T) {
	assert.Equal(t, 300, videometa.EstimateDuration(0))
	assert.Equal(t, 300, videometa.EstimateDuration(37*mib))
	assert.Equal(t, 800, videometa.EstimateDuration(100*mib))
	assert.Equal(t, 800, videometa.EstimateDuration(100*mib+mib-1))
	assert.Equal(t, 7200, videometa.EstimateDuration(900*mib))
	assert.Equal(t, 7200, videometa.EstimateDuration(50_000*mib))

	prev := 0
	for size := int64(0); size <= 1000*mib; size += 7 * mib {
		d := videometa.EstimateDuration(size)
		assert.GreaterOrEqual(t, d, prev)
		assert.GreaterOrEqual(t, d, 300)
		assert.LessOrEqual(t, d, 7200)
		prev = d
	}
}

func TestTopicsAndTags(t *testing.T) {
	title := "Kubernetes Operators With Helm Charts"

	assert.ElementsMatch(t,
		[]string{"training", "tutorial", "kubernetes", "operators", "with"},
		videometa.TopicsFromTitle(title))

	assert.ElementsMatch(t,
		[]string{"training", "tutorial", "advanced", "kubernetes", "operators", "with"},
		videometa.TagsFor(title, videometa.CategoryAdvanced))

	// duplicates collapse
	assert.ElementsMatch(t,
		[]string{"training", "tutorial"},
		videometa.TopicsFromTitle("Training Tutorial Go"))
	assert.ElementsMatch(t,
		[]string{"training", "tutorial", "beginner", "video"},
		videometa.TagsFor("Training Video", videometa.CategoryBeginner))
}

func TestCategoryTables(t *testing.T) {
	for _, c := range videometa.Categories {
		chapters := videometa.ChaptersFor("Title", c)
		require.Len(t, chapters, 4, c)
		assert.Equal(t, 0, chapters[0].StartTime)
		for i := 1; i < len(chapters); i++ {
			assert.Equal(t, chapters[i-1].EndTime, chapters[i].StartTime)
		}
		assert.Len(t, videometa.ObjectivesFor("Title", c), 3)
	}

	assert.Empty(t, videometa.PrerequisitesFor(videometa.CategoryBeginner))
	assert.NotNil(t, videometa.PrerequisitesFor(videometa.CategoryBeginner))
	assert.Len(t, videometa.PrerequisitesFor(videometa.CategoryIntermediate), 2)
	assert.Len(t, videometa.PrerequisitesFor(videometa.CategoryAdvanced), 3)

	// unknown categories use the beginner tables
	assert.Equal(t,
		videometa.ChaptersFor("Title", videometa.CategoryBeginner),
		videometa.ChaptersFor("Title", "expert"))
	assert.Equal(t,
		videometa.ObjectivesFor("Title", videometa.CategoryBeginner),
		videometa.ObjectivesFor("Title", "expert"))
	assert.Empty(t, videometa.PrerequisitesFor("expert"))
}

func TestBuildRecord(t *testing.T) {
	entry := &videometa.VideoEntry{
		Path:      "advanced/Deep_Dive Part 2.mp4",
		FileName:  "Deep_Dive Part 2.mp4",
		CleanName: "Deep_Dive Part 2",
		Category:  videometa.CategoryAdvanced,
		SizeBytes: 300 * mib,
		URL:       "https://acct.blob.core.windows.net/training-videos/advanced/Deep_Dive%20Part%202.mp4",
	}

	rec, err := videometa.BuildRecord(entry, nil)
	require.NoError(t, err)

	assert.Equal(t, "advanced-deep-dive-part-2", rec.VideoID)
	assert.Equal(t, "Deep Dive Part", rec.Title)
	assert.Equal(t, "Training video: Deep Dive Part - Advanced level content for comprehensive learning", rec.Description)
	assert.Equal(t, videometa.CategoryAdvanced, rec.Category)
	assert.Equal(t, 2400, rec.DurationSeconds)
	assert.Equal(t, "", rec.ThumbnailURL)
	assert.Equal(t, entry.URL, rec.VideoURL)
	assert.Equal(t, "Training content covering deep dive part. This advanced-level course provides comprehensive instruction on the topic.", rec.Transcript)
	assert.ElementsMatch(t, []string{"training", "tutorial", "deep", "dive", "part"}, rec.Topics)
	assert.Equal(t, "Achieve expert-level proficiency in deep dive part", rec.LearningObjectives[0])
	assert.Equal(t, "advanced", rec.DifficultyLevel)
	assert.Equal(t, videometa.DefaultInstructor, rec.Instructor)
	assert.Equal(t, videometa.RecordTimestamp, rec.CreatedDate)
	assert.Equal(t, videometa.RecordTimestamp, rec.UpdatedDate)
	assert.Contains(t, rec.Tags, "advanced")
	assert.Equal(t, "Expert Overview", rec.Chapters[0].Title)

	again, err := videometa.BuildRecord(entry, nil)
	require.NoError(t, err)
	assert.Equal(t, rec, again)
}

func TestBuildRecordDefaultsUnknownCategory(t *testing.T) {
	rec, err := videometa.BuildRecord(&videometa.VideoEntry{CleanName: "welcome", Category: ""}, nil)
	require.NoError(t, err)
	assert.Equal(t, videometa.CategoryBeginner, rec.Category)
	assert.Equal(t, "beginner-welcome", rec.VideoID)
	assert.Equal(t, 300, rec.DurationSeconds)
	assert.Equal(t, "Welcome and overview of Welcome", rec.Chapters[0].Description)
}
