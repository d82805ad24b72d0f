package decomposition

import "github.com/joymec19/smart-scheduler/internal/task"

// systemTemplate is the built-in step list for one category. These mirror the
// seeded system rows and are used whenever no user variant exists.
type systemTemplate struct {
	ClarifyingQuestion string
	BasePattern        []string
	Steps              []TemplateStep
	SubTypes           map[SubType][]TemplateStep
}

var systemTemplates = map[task.Category]systemTemplate{
	task.CategoryLearning: {
		ClarifyingQuestion: "What does completing this mean in concrete terms? (e.g., finish reading, write summary, pass quiz)",
		BasePattern:        []string{"Discover", "Consume", "Capture", "Recall", "Apply"},
		Steps: []TemplateStep{
			{Title: "Skim overview", EstimatedMinutes: 15, IsBlocking: true},
			{Title: "Deep read/watch", EstimatedMinutes: 30, IsBlocking: true},
			{Title: "Take structured notes", EstimatedMinutes: 20, IsBlocking: false},
			{Title: "Create flashcards/summary", EstimatedMinutes: 15, IsBlocking: false},
			{Title: "Do 3 practice problems", EstimatedMinutes: 20, IsBlocking: false},
		},
		SubTypes: map[SubType][]TemplateStep{
			SubTypeLongFormArticle: {
				{Title: "Clarify outcome", EstimatedMinutes: 20, IsBlocking: true},
				{Title: "Discover & select references", EstimatedMinutes: 60, IsBlocking: true},
				{Title: "Capture structured notes", EstimatedMinutes: 45, IsBlocking: true},
				{Title: "Draft outline & skeleton", EstimatedMinutes: 45, IsBlocking: true},
				{Title: "Write first draft", EstimatedMinutes: 90, IsBlocking: true},
				{Title: "Edit for clarity & format", EstimatedMinutes: 60, IsBlocking: false},
				{Title: "Final polish & schedule", EstimatedMinutes: 30, IsBlocking: false},
			},
		},
	},
	task.CategoryWork: {
		ClarifyingQuestion: "What is the final deliverable? (e.g., doc, email, presentation, deployed code)",
		BasePattern:        []string{"Clarify", "Plan", "Produce", "Review", "Ship"},
		Steps: []TemplateStep{
			{Title: "Clarify requirements", EstimatedMinutes: 20, IsBlocking: true},
			{Title: "Draft outline", EstimatedMinutes: 25, IsBlocking: true},
			{Title: "Create v1", EstimatedMinutes: 45, IsBlocking: true},
			{Title: "Review with stakeholder", EstimatedMinutes: 20, IsBlocking: false},
			{Title: "Finalize and send", EstimatedMinutes: 15, IsBlocking: false},
		},
	},
	task.CategoryHealth: {
		ClarifyingQuestion: "What does the session involve? (e.g., gym workout, meal prep, meditation, outdoor run)",
		BasePattern:        []string{"Prep", "Execute", "Reflect"},
		Steps: []TemplateStep{
			{Title: "Plan workout/meal", EstimatedMinutes: 10, IsBlocking: true},
			{Title: "Do session", EstimatedMinutes: 30, IsBlocking: true},
			{Title: "Log results/energy level", EstimatedMinutes: 5, IsBlocking: false},
		},
	},
	task.CategoryPersonal: {
		ClarifyingQuestion: "What needs to happen for this to be done? (e.g., make a call, buy something, visit somewhere)",
		BasePattern:        []string{"Decide", "Prepare", "Do", "Follow-up"},
		Steps: []TemplateStep{
			{Title: "Decide", EstimatedMinutes: 10, IsBlocking: true},
			{Title: "Prepare", EstimatedMinutes: 15, IsBlocking: true},
			{Title: "Do", EstimatedMinutes: 30, IsBlocking: true},
			{Title: "Follow-up", EstimatedMinutes: 10, IsBlocking: false},
		},
	},
	task.CategoryInfo: {
		ClarifyingQuestion: "What will 'done' look like? (e.g., summary doc, decision made, sources collected)",
		BasePattern:        []string{"Collect sources", "Skim & filter", "Deep read", "Synthesize"},
		Steps: []TemplateStep{
			{Title: "Collect sources", EstimatedMinutes: 15, IsBlocking: true},
			{Title: "Skim & filter", EstimatedMinutes: 20, IsBlocking: true},
			{Title: "Deep read 2-3 best", EstimatedMinutes: 30, IsBlocking: true},
			{Title: "Synthesize into notes", EstimatedMinutes: 20, IsBlocking: false},
		},
	},
	task.CategoryCreative: {
		ClarifyingQuestion: "What are you creating? (e.g., blog post, design, video, illustration)",
		BasePattern:        []string{"Warm-up", "Idea generation", "Selection", "Execution", "Polish"},
		Steps: []TemplateStep{
			{Title: "Warm-up", EstimatedMinutes: 10, IsBlocking: false},
			{Title: "Idea generation", EstimatedMinutes: 20, IsBlocking: true},
			{Title: "Selection", EstimatedMinutes: 10, IsBlocking: true},
			{Title: "Execution", EstimatedMinutes: 40, IsBlocking: true},
			{Title: "Polish", EstimatedMinutes: 20, IsBlocking: false},
		},
	},
}

// lookupSystemTemplate returns the built-in template for the category, falling
// back to the work template for unknown categories.
func lookupSystemTemplate(category task.Category) systemTemplate {
	if tpl, ok := systemTemplates[category]; ok {
		return tpl
	}
	return systemTemplates[task.CategoryWork]
}

// baseSteps clones the template's step list, taking the sub-type variant when
// one is defined.
func baseSteps(tpl systemTemplate, subType SubType) []TemplateStep {
	src := tpl.Steps
	if subType != "" {
		if variant, ok := tpl.SubTypes[subType]; ok {
			src = variant
		}
	}
	out := make([]TemplateStep, len(src))
	copy(out, src)
	return out
}

// ClarifyingQuestion returns the question to ask before decomposing a task of
// the given category.
func ClarifyingQuestion(category task.Category) string {
	return lookupSystemTemplate(category).ClarifyingQuestion
}
