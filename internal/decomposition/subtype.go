package decomposition

import (
	"regexp"
	"strings"

	"github.com/joymec19/smart-scheduler/internal/task"
)

var longFormArticlePattern = regexp.MustCompile(`article|blog|essay|write|paper|guide`)

// InferSubType classifies a clarifying answer into a template sub-type.
// Returns the empty SubType when no finer-grained template applies.
func InferSubType(category task.Category, clarifyingAnswer string) SubType {
	if clarifyingAnswer == "" {
		return ""
	}
	answer := strings.ToLower(clarifyingAnswer)
	if category == task.CategoryLearning && longFormArticlePattern.MatchString(answer) {
		return SubTypeLongFormArticle
	}
	return ""
}
