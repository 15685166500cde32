package recommendation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

// Exclusion trigger phrases, checked in order. "뺴고" is a common misspelling
// of "빼고" that shows up in real requests.
var excludePatterns = []string{"제외하고", "빼고", "제외", "뺴고", "말고"}

// Topic/object particles stripped from the tail of an excluded category word.
var particleReplacer = strings.NewReplacer("은", "", "는", "", "을", "", "를", "")

// Politeness suffixes users append to requests.
var politenessReplacer = strings.NewReplacer("추천해줘", "", "알려줘", "", "보여줘", "", "찾아줘", "")

var (
	countPattern      = regexp.MustCompile(`(\d+)개`)
	countStripPattern = regexp.MustCompile(`\d+개(만)?`)
)

const (
	defaultPlaceCount = 4
	manyPlaceCount    = 10
	minPlaceCount     = 1
	maxPlaceCount     = 20
)

// ParseUserRequest turns the free-text must-visit field into a cleaned
// phrase, excluded categories and a desired place count. Single pass,
// deterministic, no AI involved.
func ParseUserRequest(input string) types.ParsedRequest {
	if strings.TrimSpace(input) == "" {
		return types.ParsedRequest{PlaceCount: defaultPlaceCount}
	}

	cleaned := input
	var excludeCategories []string
	placeCount := defaultPlaceCount

	for _, pattern := range excludePatterns {
		idx := strings.Index(cleaned, pattern)
		if idx < 0 {
			continue
		}
		before := strings.TrimSpace(cleaned[:idx])
		words := strings.Fields(before)
		if len(words) > 0 {
			category := strings.TrimSpace(particleReplacer.Replace(words[len(words)-1]))
			if category != "" {
				excludeCategories = append(excludeCategories, category)
			}
		}
		cleaned = strings.TrimSpace(cleaned[idx+len(pattern):])
	}

	if strings.Contains(cleaned, "많이") {
		placeCount = manyPlaceCount
		cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, "많이", ""))
	} else if m := countPattern.FindStringSubmatch(cleaned); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			placeCount = n
		}
		cleaned = strings.TrimSpace(countStripPattern.ReplaceAllString(cleaned, ""))
	}

	placeCount = max(minPlaceCount, min(maxPlaceCount, placeCount))

	cleaned = strings.TrimSpace(politenessReplacer.Replace(cleaned))

	return types.ParsedRequest{
		CleanedMustVisitPlace: cleaned,
		ExcludeCategories:     excludeCategories,
		PlaceCount:            placeCount,
	}
}
