package videometa

import (
	"path"
	"strings"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".avi":  {},
	".mov":  {},
	".wmv":  {},
	".mkv":  {},
	".flv":  {},
	".webm": {},
}

// keywordRule maps a set of filename keywords to a category.
type keywordRule struct {
	category Category
	keywords []string
}

// keywordRules are evaluated in order; the first rule with a matching keyword wins.
var keywordRules = []keywordRule{
	{CategoryAdvanced, []string{"advanced", "expert", "master", "professional", "deep"}},
	{CategoryIntermediate, []string{"intermediate", "medium", "standard", "level2"}},
	{CategoryBeginner, []string{"beginner", "basic", "intro", "fundamentals", "101", "start"}},
}

// IsVideo reports whether key has one of the supported video extensions.
// A file name that is only an extension (".mp4") has no extension.
func IsVideo(key string) bool {
	base := path.Base(key)
	ext := path.Ext(base)
	if ext == base {
		return false
	}
	_, ok := videoExtensions[strings.ToLower(ext)]
	return ok
}

// IsMetadataKey reports whether key lives in the reserved metadata namespace.
func IsMetadataKey(key string) bool {
	return strings.HasPrefix(key, MetadataPrefix)
}

// Classify derives the category and display name of a video from its storage key.
//
// Rules, first match wins:
//  1. a leading directory named after a category ("Beginner/Intro.mp4")
//  2. a "<category>-" file name prefix ("advanced-deep-dive.mp4")
//  3. keyword detection on the file name (DetectCategory)
func Classify(key string) (Category, string) {
	stem := fileStem(key)

	if strings.Contains(key, "/") {
		first, _, _ := strings.Cut(key, "/")
		if c, ok := ParseCategory(first); ok {
			return c, stem
		}
	}

	for _, c := range Categories {
		prefix := string(c) + "-"
		if len(stem) >= len(prefix) && strings.EqualFold(stem[:len(prefix)], prefix) {
			return c, stem[len(prefix):]
		}
	}

	return DetectCategory(stem), stem
}

// DetectCategory applies keywordRules to a file name and defaults to beginner.
func DetectCategory(name string) Category {
	lower := strings.ToLower(name)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryBeginner
}

// fileStem returns the last path segment without its extension.
func fileStem(key string) string {
	base := path.Base(key)
	return strings.TrimSuffix(base, path.Ext(base))
}
