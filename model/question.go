package model

// QuestionKind classifies a screening form control by the way it is answered.
type QuestionKind string

const (
	QuestionText     QuestionKind = "text"
	QuestionTextArea QuestionKind = "textarea"
	QuestionSelect   QuestionKind = "select"
	QuestionRadio    QuestionKind = "radio"
	QuestionCheckbox QuestionKind = "checkbox"
)

// SingleChoice reports whether the control accepts exactly one option.
func (k QuestionKind) SingleChoice() bool {
	return k == QuestionSelect || k == QuestionRadio
}

// ScreeningQuestion is one label-bound control found on an application step.
// Label is lower-cased at extraction time so matching stays case-insensitive
// end to end. Locator is a site-specific handle back to the control; nothing
// outside the adapter that produced it may interpret it. Questions live only
// for the step that found them and are never persisted.
type ScreeningQuestion struct {
	Label   string
	Kind    QuestionKind
	Options []string
	Locator string
}
