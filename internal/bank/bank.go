package bank

import (
	"fmt"
	"strings"
)

// QuestionType distinguishes true/false questions from multiple choice.
type QuestionType string

const (
	TypeRow QuestionType = "row"
	TypeMCQ QuestionType = "mcq"
)

// RowAnswer is the correct flag of a row question.
type RowAnswer string

const (
	RowRight RowAnswer = "R"
	RowWrong RowAnswer = "W"
)

// ChoiceKeys is the fixed option order. An option's slot is its 1-based
// index here, whether or not earlier keys produced text.
var ChoiceKeys = [4]string{"A", "B", "C", "D"}

// TextLine is one line of page text in reading order.
type TextLine struct {
	Page   int    // 1-based page number
	Column int    // 0 left, 1 right
	BBox   BBox   // Line box, top-left origin
	Text   string // Whitespace-normalized text
}

// Region is the union box of a question's lines within one page column.
type Region struct {
	Page   int  `json:"page"`
	Column int  `json:"colIndex"`
	BBox   BBox `json:"bbox"`
}

// Option is one labeled choice of an mcq question.
type Option struct {
	ID          string `json:"id"`
	OriginalKey string `json:"originalKey"`
	Text        string `json:"text"`
}

// Asset is an image bound to a question.
type Asset struct {
	Kind string `json:"kind"`
	Src  string `json:"src"`
	Page int    `json:"page"`
	BBox BBox   `json:"bbox"`
	Hash string `json:"hash"`
}

// Source records where a question came from.
type Source struct {
	PDF string `json:"pdf"`
}

// Tags are added by post-processing; extraction leaves them unset.
type Tags struct {
	Auto      []string     `json:"auto"`
	User      []string     `json:"user"`
	Suggested []Suggestion `json:"suggested,omitempty"`
}

// Suggestion is a dictionary tag offered for review, not applied.
type Suggestion struct {
	Tag   string `json:"tag"`
	Score int    `json:"score"`
}

// Question is a final question record.
type Question struct {
	ID              string       `json:"id"`
	Number          int          `json:"number"`
	Type            QuestionType `json:"type"`
	Prompt          string       `json:"prompt"`
	Options         []Option     `json:"options"`
	CorrectRow      *RowAnswer   `json:"correctRow"`
	CorrectOptionID *string      `json:"correctOptionId"`
	AnswerRaw       *string      `json:"answerRaw"`
	Regions         []Region     `json:"regions"`
	Assets          []Asset      `json:"assets"`
	Source          Source       `json:"source"`
	Tags            *Tags        `json:"tags,omitempty"`
}

// Meta describes one extraction run.
type Meta struct {
	Slug          string `json:"slug"`
	PDF           string `json:"pdf"`
	ExtractedAt   string `json:"extractedAt"`
	QuestionCount int    `json:"questionCount"`
}

// Dataset is the persisted payload.
type Dataset struct {
	Meta      Meta       `json:"meta"`
	Questions []Question `json:"questions"`
}

// QuestionID derives the stable id of a question from its number.
func QuestionID(number, width int) string {
	return fmt.Sprintf("q%0*d", width, number)
}

// OptionID derives an option id from its question id and 1-based slot.
func OptionID(questionID string, slot int) string {
	return fmt.Sprintf("%s_o%d", questionID, slot)
}

// NormalizeSpace collapses whitespace runs to single spaces and trims.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
