package decomposition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joymec19/smart-scheduler/internal/task"
)

func TestInferSubType(t *testing.T) {
	tests := []struct {
		name     string
		category task.Category
		answer   string
		want     SubType
	}{
		{"empty answer", task.CategoryLearning, "", ""},
		{"learning article", task.CategoryLearning, "I want to write an Article about Go", SubTypeLongFormArticle},
		{"learning blog", task.CategoryLearning, "finish my blog post", SubTypeLongFormArticle},
		{"learning essay", task.CategoryLearning, "an ESSAY for class", SubTypeLongFormArticle},
		{"learning paper", task.CategoryLearning, "read this paper", SubTypeLongFormArticle},
		{"learning no keyword", task.CategoryLearning, "pass the quiz", ""},
		{"work with keyword", task.CategoryWork, "write a blog article", ""},
		{"creative with keyword", task.CategoryCreative, "an essay", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferSubType(tt.category, tt.answer))
		})
	}
}
